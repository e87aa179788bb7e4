// Package testutil provides testing utilities for mmprep.
//
// This package is intended for use in tests only. It writes small synthetic
// dataset trees in the raw layouts the loaders read.
//
// # Fixtures
//
//	testutil.WriteCOCO(t, root, 2017, map[string]testutil.COCOSplit{"val": split})
//	testutil.WriteMIRFlickr(t, root, testutil.MIRFlickr{...})
//	testutil.WriteNUSWIDE(t, root, testutil.NUSWIDE{...})
//
// # Random Fixtures
//
//	rng := testutil.NewRNG(seed)
//	split := rng.COCOSplit(100, 5)
package testutil
