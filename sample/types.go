package main

type MatchRequest struct {
	ProbeTemplate     string `json:"probe_template"`
	CandidateTemplate string `json:"candidate_template"`
}

type MatchResponse struct {
	Score      float64        `json:"score"`
	Similarity float64        `json:"similarity"`
	Match      bool           `json:"is_match"`
	Elapsed    string         `json:"elapsed,omitempty"`
	Details    map[string]int `json:"details,omitempty"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
}
