// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package instgen synthesizes benchmark workload-placement instances. An
// instance is a table of applications, each with a replica count and a
// resource demand, annotated with a directed interference graph whose edges
// carry affinity categories.
//
// Generation takes a base table of N applications and a target edge density.
// One of three graph generators builds a directed graph over ids 1..N (see
// [Kind]), the [affinity.Labeler] attaches a category to every edge, and the
// result is joined back onto the base table by application id.
//
// All randomness flows through an explicit [variate.Sampler]. Generators hold
// no state between calls, so independent calls with their own samplers may run
// concurrently.
package instgen
