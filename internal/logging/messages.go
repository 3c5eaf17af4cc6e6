package logging

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Analyzer
		"Row %d analyzed: %d bits":                    "行 %d を解析しました: %d ビット",
		"Frame %dx%d analyzed: %d bits, PSNR %.2f dB": "%dx%d フレームを解析しました: %d ビット, PSNR %.2f dB",
		"Analysis canceled: %v":                       "解析を中止しました: %v",

		// Command line
		"Analyzing %d pictures of %dx%d": "%d 枚の %dx%d ピクチャを解析中",
		"Output saved to %s":             "出力を %s に保存しました",
		"Interrupted, shutting down...":  "中断されました。シャットダウン中...",
	})
}
