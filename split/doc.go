// Package split divides a tensor's entries into a training and a test set at
// review granularity while keeping every user, item, and word represented in
// training.
//
// A review is the group of entries sharing a (user, item) pair. The splitter
// samples test reviews uniformly at random without replacement, then repairs
// coverage: for every user, item, and word id that occurs in the full set but
// not in training, one test review containing it is moved back to training.
// Repairs repeat until nothing is missing. Each repair moves exactly one review,
// so the loop ends after at most as many moves as there are test reviews.
//
// Coverage is tracked with Roaring bitmaps, one per mode.
package split
