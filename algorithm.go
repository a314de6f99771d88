package geohdbscan

import "fmt"

// selectAlgorithm resolves AlgorithmAuto for n unique points and rejects
// combinations the exhaustive path cannot serve.
//
// Auto picks the exhaustive path when every point is within K of every other
// point anyway (n <= K+1) and full reachability is in use; the spatial index
// buys nothing there. Otherwise it picks the spatial index.
func selectAlgorithm(cfg Config, n int) (Algorithm, error) {
	switch cfg.Algorithm {
	case AlgorithmAuto:
		if n <= cfg.K+1 && cfg.Reachability == ReachabilityFull {
			return AlgorithmBrute, nil
		}
		return AlgorithmSpatial, nil
	case AlgorithmBrute:
		if cfg.Reachability != ReachabilityFull {
			return "", fmt.Errorf("geohdbscan: algorithm %q requires reachability %q, got %q",
				AlgorithmBrute, ReachabilityFull, cfg.Reachability)
		}
		return AlgorithmBrute, nil
	default:
		return cfg.Algorithm, nil
	}
}
