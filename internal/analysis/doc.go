// Package analysis measures force-field accuracy and run behaviour.
//
//   - [Compare]: per-body relative error of one field against another
//   - [ThetaSweep]: Barnes-Hut error and cost across opening thresholds
//   - [PowerSpectrum]: periodicity of a sampled metric series
//
// Brute force is the usual reference:
//
//	acc := analysis.Compare(bf, bh, bodies.Particles())
//	fmt.Printf("max error %.2e, %.1fx faster\n", acc.Max, acc.Speedup())
package analysis
