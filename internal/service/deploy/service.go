package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"log/slog"

	"github.com/villetta-hq/villetta/internal/domain"
	"github.com/villetta-hq/villetta/internal/siteconfig"
	"github.com/villetta-hq/villetta/internal/template"
	"github.com/villetta-hq/villetta/internal/vercel"
	"github.com/villetta-hq/villetta/pkg/config"
)

// PlatformClient abstracts the Vercel deployment API.
type PlatformClient interface {
	CreateDeployment(ctx context.Context, name string, files []template.ManifestEntry) (*vercel.Deployment, error)
	GetDeployment(ctx context.Context, deploymentID string) (*vercel.Deployment, error)
	AssignAlias(ctx context.Context, deploymentID, alias string) error
}

// ConfigurationSource yields the current site configuration for a property.
type ConfigurationSource interface {
	GetConfiguration(ctx context.Context, ownerID, propertyID string) (*domain.PropertyConfiguration, error)
}

// ProgressSink receives deployment progress broadcasts keyed by property ID.
type ProgressSink interface {
	Broadcast(propertyID string, payload []byte)
}

// FailedError reports a deployment that reached a terminal failure state.
type FailedError struct {
	Status string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("deployment failed with status %s", e.Status)
}

// TimeoutError reports a deployment still pending after all polling
// attempts were used up.
type TimeoutError struct {
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("deployment not ready after %d polls", e.Attempts)
}

var errMissingSiteName = errors.New("site name is required")

// Service materializes a property's template and orchestrates deployments on
// the remote platform.
type Service struct {
	configurations ConfigurationSource
	client         PlatformClient
	hub            ProgressSink
	logger         *slog.Logger
	cfg            config.APIConfig
}

// New returns a deployment service. hub may be nil when no progress stream
// is wanted.
func New(configurations ConfigurationSource, client PlatformClient, hub ProgressSink, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{
		configurations: configurations,
		client:         client,
		hub:            hub,
		logger:         logger,
		cfg:            cfg,
	}
}

// DeployProperty loads the property's current configuration, materializes
// the template with it and deploys the result.
func (s Service) DeployProperty(ctx context.Context, ownerID, propertyID, siteName string) (*domain.DeploymentResult, error) {
	cfg, err := s.configurations.GetConfiguration(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	name := siteName
	if strings.TrimSpace(name) == "" {
		name = propertyID
	}
	return s.deploy(ctx, propertyID, name, cfg.Configuration)
}

// DeploySite deploys an ad-hoc configuration under the given site name
// without touching stored property state.
func (s Service) DeploySite(ctx context.Context, siteName string, raw json.RawMessage) (*domain.DeploymentResult, error) {
	if strings.TrimSpace(siteName) == "" {
		return nil, errMissingSiteName
	}
	return s.deploy(ctx, "", siteName, raw)
}

func (s Service) deploy(ctx context.Context, propertyID, siteName string, raw json.RawMessage) (*domain.DeploymentResult, error) {
	cfg, err := siteconfig.Validate(raw)
	if err != nil {
		return nil, err
	}

	slug, err := slugify(siteName)
	if err != nil {
		return nil, err
	}

	files, report, err := template.Materialize(s.cfg.TemplateDir, cfg)
	if err != nil {
		return nil, err
	}
	for _, anchor := range report.Skipped {
		s.logger.Warn("patch anchor not found", "site", slug, "anchor", anchor)
		anchorSkips.WithLabelValues(anchor).Inc()
	}

	result, err := s.deployAndAlias(ctx, propertyID, slug, template.Manifest(files))
	if err != nil {
		deployTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	deployTotal.WithLabelValues("success").Inc()
	return result, nil
}

func (s Service) deployAndAlias(ctx context.Context, propertyID, slug string, manifest []template.ManifestEntry) (*domain.DeploymentResult, error) {
	deployment, err := s.client.CreateDeployment(ctx, slug, manifest)
	if err != nil {
		return nil, fmt.Errorf("create deployment: %w", err)
	}
	s.logger.Info("deployment created", "site", slug, "deployment_id", deployment.ID, "status", deployment.Status)
	s.broadcast(propertyID, deployment, 0)

	ready, err := s.awaitReady(ctx, propertyID, deployment)
	if err != nil {
		return nil, err
	}

	result := &domain.DeploymentResult{
		DeploymentID:  ready.ID,
		DeploymentURL: "https://" + ready.URL,
	}

	alias := slug + s.cfg.AliasDomainSuffix
	if err := s.client.AssignAlias(ctx, ready.ID, alias); err != nil {
		s.logger.Warn("alias assignment failed", "site", slug, "deployment_id", ready.ID, "error", err)
		result.AliasError = err.Error()
		return result, nil
	}
	result.AliasURL = "https://" + alias
	s.logger.Info("deployment aliased", "site", slug, "deployment_id", ready.ID, "alias", alias)
	return result, nil
}

// awaitReady polls the platform until the deployment reaches READY, a
// terminal failure state, or the attempt cap is reached. Every attempt
// waits the poll interval first, so the worst case is bounded by
// maxAttempts times the interval.
func (s Service) awaitReady(ctx context.Context, propertyID string, deployment *vercel.Deployment) (*vercel.Deployment, error) {
	if terminal, err := checkTerminal(deployment); terminal {
		return deployment, err
	}

	interval := s.cfg.DeployPollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	maxAttempts := s.cfg.DeployMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 60
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		current, err := s.client.GetDeployment(ctx, deployment.ID)
		if err != nil {
			return nil, fmt.Errorf("poll deployment: %w", err)
		}
		s.broadcast(propertyID, current, attempt)

		if terminal, err := checkTerminal(current); terminal {
			if err != nil {
				s.logger.Error("deployment failed", "deployment_id", current.ID, "status", current.Status)
				return nil, err
			}
			return current, nil
		}
		timer.Reset(interval)
	}
	return nil, &TimeoutError{Attempts: maxAttempts}
}

func checkTerminal(d *vercel.Deployment) (bool, error) {
	switch d.Status {
	case vercel.StatusReady:
		return true, nil
	case vercel.StatusError, vercel.StatusCanceled:
		return true, &FailedError{Status: d.Status}
	default:
		return false, nil
	}
}

func (s Service) broadcast(propertyID string, d *vercel.Deployment, attempt int) {
	if s.hub == nil || propertyID == "" {
		return
	}
	progress := domain.DeploymentProgress{
		PropertyID:   propertyID,
		DeploymentID: d.ID,
		Status:       d.Status,
		Attempt:      attempt,
		URL:          d.URL,
		Timestamp:    time.Now().UTC(),
	}
	payload, err := json.Marshal(progress)
	if err != nil {
		return
	}
	s.hub.Broadcast(propertyID, payload)
}

var (
	slugSpaceRe  = regexp.MustCompile(`\s+`)
	slugStripRe  = regexp.MustCompile(`[^a-z0-9-]`)
	slugHyphenRe = regexp.MustCompile(`-+`)
)

// slugify normalizes a site name into a platform-safe project slug:
// lower case, whitespace runs to a single hyphen, everything else outside
// [a-z0-9-] dropped, hyphen runs collapsed.
func slugify(name string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugSpaceRe.ReplaceAllString(slug, "-")
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugHyphenRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) < 3 || len(slug) > 63 {
		return "", fmt.Errorf("site name %q yields invalid slug %q", name, slug)
	}
	return slug, nil
}
