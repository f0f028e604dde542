// Package conv provides linear convolution of sampled lines.
//
// Two strategies are available:
//
//   - Direct convolution: O(N*M) time-domain sums, used for short kernels
//   - Overlap-add (OLA): FFT-based block convolution for long kernels
//
// # Usage
//
//	full, err := conv.Convolve(line, kernel)               // length len(line)+len(kernel)-1
//	same, err := conv.ConvolveMode(line, kernel, ModeSame) // centred, length len(line)
//
// For repeated convolution with the same kernel, build the convolver once:
//
//	oa, err := conv.NewOverlapAdd(kernel, 0)
//	full, err := oa.Process(line)
//
// [Convolve] picks direct convolution for kernels of up to 64 samples and
// overlap-add above that.
package conv
