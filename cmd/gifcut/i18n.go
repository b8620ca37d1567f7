// Package main provides localization for the gifcut CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input and Output": "入出力",
		"Segmentation":     "シーン分割",
		"Animation":        "アニメーション",
		"Execution":        "実行",
		"Debug":            "デバッグ",
		"Logging":          "ログ",

		// Root command
		"Split a video into one animated GIF per scene":                                                                    "動画をシーンごとのアニメーションGIFに分割",
		"gifcut compares consecutive frames and starts a new GIF whenever the picture changes by more than the threshold.": "gifcutは連続するフレームを比較し、画面の変化がしきい値を超えるたびに新しいGIFを開始します。",

		// Version command
		"Show version information": "バージョン情報を表示",
		"gifcut version %s":        "gifcut バージョン %s",

		// Input and output flags
		"Video file to split (may also be given as an argument)": "分割する動画ファイル（引数でも指定可能）",
		"Directory for the generated GIFs":                       "生成したGIFの出力ディレクトリ",
		"YAML configuration file (flags override its values)":    "YAML設定ファイル（フラグの値が優先されます）",
		"Output execution summary to file (Markdown format)":     "実行サマリーをファイルに出力（Markdown形式）",

		// Segmentation flags
		"Percentage of changed pixels that marks a scene cut (0-100)": "シーンの切れ目とみなす変化ピクセルの割合（0-100）",
		"Frames a scene must exceed before a cut is accepted":         "カットを受け入れるまでにシーンが超えるべきフレーム数",
		"What to do with the last scene (discard, emit)":              "最後のシーンの扱い（discard, emit）",
		"Print the difference between every pair of frames":           "フレームごとの差分を表示",

		// Animation flags
		"Output GIF width":                         "出力GIFの幅",
		"Output GIF height":                        "出力GIFの高さ",
		"Frame delay in hundredths of a second":    "フレームの表示時間（1/100秒）",
		"Loop count (0 = forever, -1 = play once)": "ループ回数（0 = 無限、-1 = 1回のみ再生）",
		"GIF encoder (gif, ffmpeg, auto)":          "GIFエンコーダー（gif, ffmpeg, auto）",
		"Disable Floyd-Steinberg dithering":        "Floyd-Steinbergディザリングを無効化",

		// Execution flags
		"Number of GIFs written concurrently":                                  "同時に書き出すGIFの数",
		"Path to ffmpeg executable (falls back to FFMPEG_PATH env, then PATH)": "ffmpeg実行ファイルのパス（未指定時はFFMPEG_PATH環境変数、次にPATH）",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Splitting %s (threshold %.2f%%, minimum %d frames)...": "%s を分割中 (しきい値 %.2f%%, 最小 %d フレーム)...",
		"Output saved to %s (%d GIFs)":                          "出力を %s に保存しました (%d 個のGIF)",
		"Interrupted, shutting down...":                         "中断されました。シャットダウン中...",
		"Interrupted":                                           "中断されました",

		// Error messages
		"A video file is required": "動画ファイルの指定が必要です",

		// Summary output
		"Summary saved to %s":         "サマリーを %s に保存しました",
		"Failed to write summary: %s": "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Scene Cut Summary": "シーン分割サマリー",
		"Input":             "入力",
		"Settings":          "設定",
		"Segments":          "セグメント",
		"Item":              "項目",
		"Value":             "値",

		// Input section
		"File":        "ファイル",
		"Resolution":  "解像度",
		"Codec":       "コーデック",
		"Frame Rate":  "フレームレート",
		"Frames Read": "読み込みフレーム数",

		// Settings section
		"Threshold":              "しきい値",
		"Minimum Segment Length": "最小セグメント長",
		"Trailing Segment":       "末尾セグメント",
		"Output Size":            "出力サイズ",
		"Frame Delay":            "フレーム表示時間",
		"Encoder":                "エンコーダー",
		"Workers":                "ワーカー数",

		// Segments section
		"No animations were written.": "アニメーションは書き出されませんでした。",
		"Frames":                      "フレーム",
		"Count":                       "枚数",
		"Size":                        "サイズ",
		"Total":                       "合計",
		"Discarded trailing frames":   "破棄した末尾フレーム",
		"Elapsed":                     "処理時間",
		"Run":                         "実行ID",
	})
}
