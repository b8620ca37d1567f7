package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Processing %s (%dx%d, %d frames)":   "%s を処理中 (%dx%d, %d フレーム)",
		"Wrote %d animations from %d frames": "%[2]d フレームから %[1]d 個のアニメーションを書き出しました",
		"Wrote %s (%d frames, %d bytes)":     "%s を書き出しました (%d フレーム, %d バイト)",
		"Emitting segments with %d workers":  "%d ワーカーでセグメントを書き出し中",
		"Emitting trailing segment %d-%d":    "末尾セグメント %d-%d を書き出し中",

		// Probe and decode
		"Probed %s: %dx%d %s, %d frames": "%s を解析: %dx%d %s, %d フレーム",
		"Decoding %s (%dx%d %s) with %s": "%s をデコード中 (%dx%d %s), 使用: %s",

		// Difference metric
		"Difference between frames is: %.2f%%": "フレーム間の差分: %.2f%%",

		// Segmentation
		"Cut at frame %d (%.2f%%), flushing frames %d-%d": "フレーム %d でカット (%.2f%%), フレーム %d-%d を確定",

		// Emit stage
		"Writing %d frames to %s": "%d フレームを %s に書き込み中",

		// Encoder selection
		"ffmpeg GIF encoder not available, falling back to built-in encoder": "ffmpeg GIFエンコーダーが利用できないため、内蔵エンコーダーを使用します",

		// Warnings
		"Discarding trailing segment: frames %d-%d (%d frames)": "末尾セグメントを破棄: フレーム %d-%d (%d フレーム)",
		"Failed to remove partial output %s: %s":                "途中まで書き込んだ %s の削除に失敗しました: %s",
		"Failed to render preview: %s":                          "プレビューの描画に失敗しました: %s",
		"Failed to save debug output: %s":                       "デバッグ出力の保存に失敗しました: %s",

		// Errors
		"Input file not found: %s":          "入力ファイルが見つかりません: %s",
		"Failed to open video: %s":          "動画を開けませんでした: %s",
		"Failed to write segment %d-%d: %s": "セグメント %d-%d の書き込みに失敗しました: %s",
		"Pipeline failed: %s":               "パイプラインが失敗しました: %s",
	})
}
