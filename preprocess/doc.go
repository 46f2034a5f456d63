// Package preprocess turns raw audio into mel spectrogram tensors and back,
// and provides the augmentations, ensembling and fold splitting used around
// the denoising models.
//
// Spectrograms are [NMels T] gotch tensors of mel power values.
package preprocess
