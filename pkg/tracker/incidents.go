package tracker

import (
	"context"
	"fmt"
	"strconv"
)

// ListIncidents returns the admin incident listing, optionally narrowed by
// filter. Server order is preserved.
func (c *Client) ListIncidents(ctx context.Context, filter IncidentFilter) ([]Incident, error) {
	var params interface{}
	if !filter.IsZero() {
		params = filter
	}

	resp, err := c.makeRequest(ctx, "GET", "/incidents", params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}

	var incidents []Incident
	if err := parseResponse(resp, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

// ListMyIncidents returns the incidents created by the session's user.
func (c *Client) ListMyIncidents(ctx context.Context) ([]Incident, error) {
	resp, err := c.makeRequest(ctx, "GET", "/incidents/my-incidents", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list my incidents: %w", err)
	}

	var incidents []Incident
	if err := parseResponse(resp, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

// GetIncident fetches a single incident by its human-readable number.
func (c *Client) GetIncident(ctx context.Context, incidentNumber string) (*Incident, error) {
	resp, err := c.makeRequest(ctx, "GET", "/incidents/"+incidentNumber, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get incident %s: %w", incidentNumber, err)
	}

	var incident Incident
	if err := parseResponse(resp, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// CreateIncident submits a new incident. The backend answers with plain text:
// a success message, or the business reason the incident was rejected.
func (c *Client) CreateIncident(ctx context.Context, in NewIncident) (string, error) {
	resp, err := c.makeRequest(ctx, "POST", "/incidents", nil, in)
	if err != nil {
		return "", fmt.Errorf("failed to create incident: %w", err)
	}
	return parseTextResponse(resp)
}

// UpdateSeverity sets the severity level of an incident.
func (c *Client) UpdateSeverity(ctx context.Context, id int64, severityLevel string) error {
	body := map[string]interface{}{"severityLevel": severityLevel}
	resp, err := c.makeRequest(ctx, "PUT", fmt.Sprintf("/incidents/%d/severity", id), nil, body)
	if err != nil {
		return fmt.Errorf("failed to update severity: %w", err)
	}
	_, err = parseTextResponse(resp)
	return err
}

// UpdateStatus sets the status of an incident. Resolving is done through
// Resolve, not here.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status string) error {
	body := map[string]interface{}{"status": status}
	resp, err := c.makeRequest(ctx, "PUT", fmt.Sprintf("/incidents/%d/status", id), nil, body)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	_, err = parseTextResponse(resp)
	return err
}

// AssignTeam assigns the incident to a team, always clearing the admin in the
// same request. A nil teamID unassigns both. The cleared admin is not an
// accident: the admin roster is team-scoped, so every team change invalidates
// the previous admin selection.
func (c *Client) AssignTeam(ctx context.Context, id int64, teamID *int64) error {
	body := map[string]interface{}{
		"assignedTeam":  nil,
		"assignedAdmin": nil,
	}
	if teamID != nil {
		body["assignedTeam"] = strconv.FormatInt(*teamID, 10)
	}

	resp, err := c.makeRequest(ctx, "PUT", fmt.Sprintf("/incidents/%d/assign", id), nil, body)
	if err != nil {
		return fmt.Errorf("failed to assign team: %w", err)
	}
	_, err = parseTextResponse(resp)
	return err
}

// AssignAdmin assigns an admin to the incident, leaving the team untouched.
// A nil adminID unassigns the admin only.
func (c *Client) AssignAdmin(ctx context.Context, id int64, adminID *int64) error {
	body := map[string]interface{}{
		"assignedAdmin": nil,
	}
	if adminID != nil {
		body["assignedAdmin"] = strconv.FormatInt(*adminID, 10)
	}

	resp, err := c.makeRequest(ctx, "PUT", fmt.Sprintf("/incidents/%d/assign", id), nil, body)
	if err != nil {
		return fmt.Errorf("failed to assign admin: %w", err)
	}
	_, err = parseTextResponse(resp)
	return err
}

// Resolve marks the incident resolved with the given resolution text.
func (c *Client) Resolve(ctx context.Context, id int64, resolution string) error {
	body := map[string]interface{}{"resolution": resolution}
	resp, err := c.makeRequest(ctx, "PUT", fmt.Sprintf("/incidents/%d/resolve", id), nil, body)
	if err != nil {
		return fmt.Errorf("failed to resolve incident: %w", err)
	}
	_, err = parseTextResponse(resp)
	return err
}

// DeleteIncident removes an incident.
func (c *Client) DeleteIncident(ctx context.Context, id int64) error {
	resp, err := c.makeRequest(ctx, "DELETE", fmt.Sprintf("/incidents/%d", id), nil, nil)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}
	_, err = parseTextResponse(resp)
	return err
}

// SearchSimilar returns incidents similar to the one identified by
// incidentNumber, with server-computed match percentages.
func (c *Client) SearchSimilar(ctx context.Context, incidentNumber string) ([]MatchResult, error) {
	params := struct {
		IncidentNumber string `url:"incidentNumber"`
	}{incidentNumber}

	resp, err := c.makeRequest(ctx, "GET", "/incidents/search", params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to search similar incidents: %w", err)
	}

	var results []MatchResult
	if err := parseResponse(resp, &results); err != nil {
		return nil, err
	}
	return results, nil
}
