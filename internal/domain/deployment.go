package domain

import "time"

// DeploymentProgress is a single frame of the deployment progress stream.
type DeploymentProgress struct {
	PropertyID   string    `json:"property_id,omitempty"`
	DeploymentID string    `json:"deployment_id"`
	Status       string    `json:"status"`
	Attempt      int       `json:"attempt,omitempty"`
	URL          string    `json:"url,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// DeploymentResult is what a successful deploy returns to the caller.
type DeploymentResult struct {
	DeploymentID  string `json:"deploymentId"`
	DeploymentURL string `json:"deploymentUrl"`
	AliasURL      string `json:"aliasUrl,omitempty"`
	AliasError    string `json:"aliasError,omitempty"`
}
