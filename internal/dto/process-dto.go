package dto

type ProcessRequest struct {
	ProcessCode string `json:"process_code"`
	ProcessName string `json:"process_name"`
	Description string `json:"description"`
	Department  string `json:"department"`
	Version     int    `json:"version"`
}

type ProcessStepRequest struct {
	StepName    string `json:"step_name"`
	Description string `json:"description"`
	StepOrder   int    `json:"step_order"`
}
