// Package sourceafis verifies fingerprints by comparing minutiae templates.
//
// A Matcher is built once per probe template and then compared against any
// number of candidates:
//
//	config.LoadDefaultConfig()
//	m, err := sourceafis.NewMatcher(nil, probe)
//	if err != nil {
//		return err
//	}
//	score := m.Match(ctx, candidate)
//	similarity := score / 100
//
// Scores range from 0 to 100. A score above config.Config.Threshold is
// treated as a positive identification.
package sourceafis
