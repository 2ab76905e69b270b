// Package orchestrator drives the interactive download flow: classify the
// submitted URL, present choices, redeem the user's selection, run the
// download, deliver the artifact, and clean up on every exit path.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vidsnap/bot/internal/artifact"
	"github.com/vidsnap/bot/internal/classify"
	"github.com/vidsnap/bot/internal/history"
	"github.com/vidsnap/bot/internal/media"
	"github.com/vidsnap/bot/internal/progress"
	"github.com/vidsnap/bot/internal/token"
)

type Config struct {
	// DurationCeiling is the longest YouTube video accepted. The bound is
	// inclusive: a video of exactly the ceiling is allowed.
	DurationCeiling time.Duration
	MetadataTimeout time.Duration
	FetchTimeout    time.Duration
	MaxParallel     int
}

type Dependencies struct {
	Registry *token.Registry
	Notifier Notifier
	Workdir  *artifact.Workdir
	History  *history.Repository // optional
	Hub      *progress.Hub       // optional
	Metadata map[media.Platform]media.MetadataClient
	Fetchers map[media.Platform]media.FetchClient
	Logger   *slog.Logger
}

// Orchestrator is the per-request selection state machine. One call to
// HandleText or HandleAction carries a request from inbound event to a
// terminal state; concurrent conversations share only the token registry
// and the download slots.
type Orchestrator struct {
	cfg      Config
	registry *token.Registry
	notifier Notifier
	workdir  *artifact.Workdir
	history  *history.Repository
	hub      *progress.Hub
	metadata map[media.Platform]media.MetadataClient
	fetchers map[media.Platform]media.FetchClient
	log      *slog.Logger
	slots    chan struct{}
}

func New(cfg Config, deps Dependencies) *Orchestrator {
	if cfg.MaxParallel < 1 {
		cfg.MaxParallel = 1
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		cfg:      cfg,
		registry: deps.Registry,
		notifier: deps.Notifier,
		workdir:  deps.Workdir,
		history:  deps.History,
		hub:      deps.Hub,
		metadata: deps.Metadata,
		fetchers: deps.Fetchers,
		log:      log,
		slots:    make(chan struct{}, cfg.MaxParallel),
	}
}

// HandleText processes an inbound text message. Anything that is not a
// recognized platform link short-circuits with the help prompt.
func (o *Orchestrator) HandleText(ctx context.Context, scope token.Scope, text string) {
	defer o.guard(ctx, scope)

	if !classify.LooksLikeURL(text) {
		o.reply(ctx, scope, msgHelp)
		return
	}

	cu := classify.Classify(text)
	if cu.Platform == media.PlatformUnknown {
		o.reply(ctx, scope, msgHelp)
		return
	}

	info, err := o.fetchInfo(ctx, cu)
	if err != nil {
		o.log.Warn("metadata fetch failed", "platform", cu.Platform, "url", cu.URL, "error", err)
		o.reply(ctx, scope, msgMetadataFailed)
		return
	}

	switch cu.Platform {
	case media.PlatformYouTube:
		// The ceiling is policy, so it lives here rather than in the
		// metadata client. Inclusive: exactly the ceiling is allowed.
		if time.Duration(info.DurationSeconds)*time.Second > o.cfg.DurationCeiling {
			o.reply(ctx, scope, msgTooLong)
			return
		}
		choices := []Choice{
			{Label: "🔊 Audio", Action: AudioAction{URL: cu.URL}},
			{Label: "🎥 Video", Action: VideoAction{URL: cu.URL}},
		}
		o.offer(ctx, scope, "Found: "+info.Title+"\n"+msgChooseAction, choices)

	case media.PlatformInstagram:
		// The URL itself is the secret-bearing content here, so both
		// choices share one registry token instead of echoing the link
		// through the callback payload.
		tok := o.registry.Register(scope, cu)
		choices := []Choice{
			{Label: "📥 Video", Action: InstagramVideoAction{Token: tok}},
			{Label: "🎵 Audio", Action: InstagramAudioAction{Token: tok}},
		}
		o.offer(ctx, scope, "Found: "+info.Title+"\n"+msgChooseAction, choices)
	}
}

// HandleAction processes a decoded callback action. ref identifies the
// message whose button the user pressed.
func (o *Orchestrator) HandleAction(ctx context.Context, scope token.Scope, ref MessageRef, act Action) {
	defer o.guard(ctx, scope)

	switch a := act.(type) {
	case AudioAction:
		cu := media.CanonicalURL{Platform: media.PlatformYouTube, URL: a.URL}
		o.download(ctx, scope, ref, cu, media.Selection{Kind: media.SelectionAudio}, msgPreparingAudio)

	case VideoAction:
		o.presentRenditions(ctx, scope, ref, a.URL)

	case ResolutionAction:
		cu := media.CanonicalURL{Platform: media.PlatformYouTube, URL: a.URL}
		o.download(ctx, scope, ref, cu, media.Selection{Kind: media.SelectionVideo, Height: a.Height}, msgPreparingVideo)

	case InstagramVideoAction:
		cu, ok := o.registry.Resolve(scope, a.Token)
		if !ok {
			o.reply(ctx, scope, msgSelectionExpired)
			return
		}
		o.download(ctx, scope, ref, cu, media.Selection{Kind: media.SelectionVideo}, msgPreparingVideo)

	case InstagramAudioAction:
		cu, ok := o.registry.Resolve(scope, a.Token)
		if !ok {
			o.reply(ctx, scope, msgSelectionExpired)
			return
		}
		o.download(ctx, scope, ref, cu, media.Selection{Kind: media.SelectionAudio}, msgPreparingAudio)

	default:
		o.log.Warn("unknown action", "scope", scope, "action", fmt.Sprintf("%T", act))
		o.reply(ctx, scope, msgInternalError)
	}
}

// presentRenditions edits the choice message into the list of available
// heights for a YouTube video.
func (o *Orchestrator) presentRenditions(ctx context.Context, scope token.Scope, ref MessageRef, url string) {
	cu := media.CanonicalURL{Platform: media.PlatformYouTube, URL: url}
	info, err := o.fetchInfo(ctx, cu)
	if err != nil {
		o.log.Warn("metadata fetch failed", "url", url, "error", err)
		o.reply(ctx, scope, msgMetadataFailed)
		return
	}
	if len(info.Renditions) == 0 {
		o.reply(ctx, scope, msgNoRenditions)
		return
	}

	choices := make([]Choice, 0, len(info.Renditions))
	for _, h := range info.Renditions {
		choices = append(choices, Choice{
			Label:  fmt.Sprintf("%dp", h),
			Action: ResolutionAction{URL: url, Height: h},
		})
	}
	if err := o.notifier.EditChoices(ctx, scope, ref, msgChooseHeight, choices); err != nil {
		o.log.Warn("editing choice message", "scope", scope, "error", err)
		o.reply(ctx, scope, msgInternalError)
	}
}

// download runs one DownloadJob to a terminal state. Artifacts are
// released on every exit path, including panics and delivery failures.
func (o *Orchestrator) download(ctx context.Context, scope token.Scope, ref MessageRef, cu media.CanonicalURL, sel media.Selection, waitText string) {
	select {
	case o.slots <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-o.slots }()

	jobID := o.recordStart(ctx, scope, cu, sel)

	// Swap the choice keyboard for a please-wait placeholder.
	if err := o.notifier.RemoveMessage(ctx, scope, ref); err != nil {
		o.log.Debug("removing choice message", "scope", scope, "error", err)
	}
	placeholder, phErr := o.notifier.SendStatus(ctx, scope, waitText)
	if phErr != nil {
		o.log.Warn("sending placeholder", "scope", scope, "error", phErr)
	}

	tracker := artifact.NewTracker(o.log)
	defer tracker.ReleaseAll()

	o.setStatus(ctx, jobID, cu, sel, history.StatusDownloading, "")

	path, err := o.fetch(ctx, cu, sel, tracker)

	if phErr == nil {
		if rmErr := o.notifier.RemoveMessage(ctx, scope, placeholder); rmErr != nil {
			o.log.Debug("removing placeholder", "scope", scope, "error", rmErr)
		}
	}

	if err != nil {
		o.log.Warn("download failed", "scope", scope, "platform", cu.Platform, "url", cu.URL, "error", err)
		o.reply(ctx, scope, userMessage(err))
		o.setStatus(ctx, jobID, cu, sel, history.StatusFailed, err.Error())
		return
	}

	if err := o.notifier.SendDocument(ctx, scope, path); err != nil {
		o.log.Error("delivering document", "scope", scope, "path", path, "error", err)
		o.reply(ctx, scope, msgDeliveryFailed)
		o.setStatus(ctx, jobID, cu, sel, history.StatusFailed, "delivery: "+err.Error())
		return
	}

	o.setStatus(ctx, jobID, cu, sel, history.StatusDelivered, "")
}

func (o *Orchestrator) fetch(ctx context.Context, cu media.CanonicalURL, sel media.Selection, tracker *artifact.Tracker) (string, error) {
	fetcher, ok := o.fetchers[cu.Platform]
	if !ok {
		return "", fmt.Errorf("no fetch client for platform %q", cu.Platform)
	}

	dir, err := o.workdir.JobDir()
	if err != nil {
		return "", fmt.Errorf("creating job dir: %w", err)
	}
	// The directory is tracked before any file, so reverse-order release
	// removes it last, once it is empty.
	tracker.Track(dir)

	fctx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	defer cancel()
	return fetcher.Fetch(fctx, cu, sel, dir, tracker)
}

func (o *Orchestrator) fetchInfo(ctx context.Context, cu media.CanonicalURL) (*media.Info, error) {
	client, ok := o.metadata[cu.Platform]
	if !ok {
		return nil, fmt.Errorf("no metadata client for platform %q", cu.Platform)
	}
	mctx, cancel := context.WithTimeout(ctx, o.cfg.MetadataTimeout)
	defer cancel()
	return client.FetchInfo(mctx, cu)
}

// userMessage maps an error to the single reply shown for its kind.
func userMessage(err error) string {
	var renditionErr *media.RenditionError
	switch {
	case errors.As(err, &renditionErr):
		return msgRenditionMissing
	case errors.Is(err, media.ErrExtraction):
		return msgExtractionFailed
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimedOut
	default:
		return msgDownloadFailed
	}
}

func (o *Orchestrator) reply(ctx context.Context, scope token.Scope, text string) {
	if err := o.notifier.Reply(ctx, scope, text); err != nil {
		o.log.Error("sending reply", "scope", scope, "error", err)
	}
}

// offer presents choices, falling back to a plain reply when the choice
// message cannot be sent, so the conversation still reaches a terminal
// state the user can see.
func (o *Orchestrator) offer(ctx context.Context, scope token.Scope, text string, choices []Choice) {
	if err := o.notifier.OfferChoices(ctx, scope, text, choices); err != nil {
		o.log.Error("offering choices", "scope", scope, "error", err)
		o.reply(ctx, scope, msgInternalError)
	}
}

// guard converts an unexpected fault into a logged generic reply so the
// conversation always reaches a terminal state.
func (o *Orchestrator) guard(ctx context.Context, scope token.Scope) {
	if r := recover(); r != nil {
		o.log.Error("orchestrator panic", "scope", scope, "panic", r)
		o.reply(ctx, scope, msgInternalError)
	}
}

func (o *Orchestrator) recordStart(ctx context.Context, scope token.Scope, cu media.CanonicalURL, sel media.Selection) string {
	o.publish(progress.EventJobQueued, "", cu, sel, "")
	if o.history == nil {
		return ""
	}
	job := &history.Job{
		Scope:     string(scope),
		Platform:  string(cu.Platform),
		URL:       cu.URL,
		Selection: string(sel.Kind),
		Height:    sel.Height,
		Status:    history.StatusPending,
	}
	if err := o.history.Create(ctx, job); err != nil {
		o.log.Warn("recording job", "error", err)
		return ""
	}
	return job.ID
}

func (o *Orchestrator) setStatus(ctx context.Context, jobID string, cu media.CanonicalURL, sel media.Selection, status history.Status, errMsg string) {
	switch status {
	case history.StatusDownloading:
		o.publish(progress.EventJobDownloading, jobID, cu, sel, "")
	case history.StatusDelivered:
		o.publish(progress.EventJobDelivered, jobID, cu, sel, "")
	case history.StatusFailed:
		o.publish(progress.EventJobFailed, jobID, cu, sel, errMsg)
	}

	if o.history == nil || jobID == "" {
		return
	}
	if err := o.history.SetStatus(ctx, jobID, status, errMsg); err != nil {
		o.log.Warn("updating job status", "job", jobID, "error", err)
	}
}

func (o *Orchestrator) publish(eventType, jobID string, cu media.CanonicalURL, sel media.Selection, errMsg string) {
	if o.hub == nil {
		return
	}
	o.hub.Publish(progress.Event{
		Type: eventType,
		Data: progress.JobData{
			JobID:     jobID,
			Platform:  string(cu.Platform),
			URL:       cu.URL,
			Selection: string(sel.Kind),
			Height:    sel.Height,
			Error:     errMsg,
		},
	})
}
