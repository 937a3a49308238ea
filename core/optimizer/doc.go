// Package optimizer implements the multi-source allocator at the heart of
// the dispatch engine. Given a power demand and a condition snapshot it
// splits the demand across solar, battery and grid while honoring solar
// physics, the battery health policy and a combined cost/carbon score.
// OptimizerState is single-writer shared state: callers must serialize every
// call that mutates it.
package optimizer
