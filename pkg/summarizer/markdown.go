package summarizer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	t       func(string) string
	version string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		if t != nil {
			f.t = t
		}
	}
}

// WithVersion sets the tool version shown in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a formatter. Labels are left untranslated by default.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		t: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder
	t := f.t

	fmt.Fprintf(&b, "# %s\n\n", t("Scene Cut Summary"))

	// Input
	fmt.Fprintf(&b, "## %s\n\n", t("Input"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %s |\n", t("File"), escape(s.Input.Path))
	if s.Input.Width > 0 && s.Input.Height > 0 {
		fmt.Fprintf(&b, "| %s | %dx%d |\n", t("Resolution"), s.Input.Width, s.Input.Height)
	}
	if s.Input.Codec != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Codec"), s.Input.Codec)
	}
	if s.Input.FPS > 0 {
		fmt.Fprintf(&b, "| %s | %.2f |\n", t("Frame Rate"), s.Input.FPS)
	}
	fmt.Fprintf(&b, "| %s | %d |\n", t("Frames Read"), s.Input.FramesRead)
	b.WriteString("\n")

	// Settings
	st := s.Settings
	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %.2f%% |\n", t("Threshold"), st.Threshold)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Minimum Segment Length"), st.MinSegmentLength)
	if st.Trailing != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Trailing Segment"), st.Trailing)
	}
	if st.Width > 0 && st.Height > 0 {
		fmt.Fprintf(&b, "| %s | %dx%d |\n", t("Output Size"), st.Width, st.Height)
	}
	fmt.Fprintf(&b, "| %s | %d ms |\n", t("Frame Delay"), st.FrameDelay*10)
	if st.Encoder != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Encoder"), st.Encoder)
	}
	if st.Workers > 0 {
		fmt.Fprintf(&b, "| %s | %d |\n", t("Workers"), st.Workers)
	}
	b.WriteString("\n")

	// Segments
	fmt.Fprintf(&b, "## %s\n\n", t("Segments"))
	if len(s.Segments) == 0 {
		fmt.Fprintf(&b, "%s\n\n", t("No animations were written."))
	} else {
		fmt.Fprintf(&b, "| # | %s | %s | %s | %s |\n|---|---|---|---|---|\n",
			t("Frames"), t("Count"), t("Size"), t("File"))
		for i, seg := range s.Segments {
			fmt.Fprintf(&b, "| %d | %d-%d | %d | %s | %s |\n",
				i+1, seg.First, seg.Last, seg.Frames, formatBytes(seg.Bytes), escape(filepath.Base(seg.Path)))
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "**%s**: %d / %s\n\n", t("Total"), len(s.Segments), formatBytes(s.TotalBytes()))
	}

	if s.Dropped != nil {
		fmt.Fprintf(&b, "> %s: %d-%d (%d)\n\n",
			t("Discarded trailing frames"), s.Dropped.First, s.Dropped.Last, s.Dropped.Frames)
	}

	// Footer
	b.WriteString("---\n\n")
	footer := []string{s.GeneratedAt.Format(time.RFC3339)}
	if s.DurationMs > 0 {
		footer = append(footer, fmt.Sprintf("%s %d ms", t("Elapsed"), s.DurationMs))
	}
	if s.RunID != "" {
		footer = append(footer, fmt.Sprintf("%s %s", t("Run"), s.RunID))
	}
	if f.version != "" {
		footer = append(footer, "gifcut "+f.version)
	}
	fmt.Fprintf(&b, "_%s_\n", strings.Join(footer, " · "))

	return b.String()
}

// escape keeps table cells intact.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
