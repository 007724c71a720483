// Package analysis looks at recorded runs in the frequency domain.
//
//   - [PowerSpectrum]: magnitude spectrum of a series, zero padded to a power of two
//   - [Dominant]: strongest non-DC frequency of a series sampled at a fixed rate
//
// A field circling a steady pointer shows up as a clear peak in mean_dist:
//
//	freq, _ := analysis.Dominant(column, 60)
//	fmt.Printf("period: %.2fs\n", 1/freq)
package analysis
