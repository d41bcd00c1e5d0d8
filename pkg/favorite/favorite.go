// Package favorite renders the state of a favorite button and its icons.
//
// For an entity id "123" the page carries:
//
//	<button id="favorite-btn-123">   gets the "favorited" class when favorited
//	<span id="star-icon-123">        shown when not favorited
//	<span id="x-icon-123">           shown when favorited
//
// The id templates and class names are configurable. Missing elements are
// skipped silently.
package favorite

import (
	"context"
	"strings"

	"github.com/vango-dev/pagekit/pkg/dom"
	"github.com/vango-dev/pagekit/pkg/fetch"
)

// IDPlaceholder is replaced by the entity id in the id templates.
const IDPlaceholder = "{id}"

// Config names the elements and classes a Presenter uses.
type Config struct {
	ButtonID       string // default "favorite-btn-{id}"
	StarIconID     string // default "star-icon-{id}"
	XIconID        string // default "x-icon-{id}"
	FavoritedClass string // default "favorited"
}

// DefaultConfig returns the standard ids and classes.
func DefaultConfig() Config {
	return Config{
		ButtonID:       "favorite-btn-" + IDPlaceholder,
		StarIconID:     "star-icon-" + IDPlaceholder,
		XIconID:        "x-icon-" + IDPlaceholder,
		FavoritedClass: "favorited",
	}
}

// Presenter renders favorite state into a document.
type Presenter struct {
	acc    *dom.Accessor
	tog    *dom.Toggler
	config Config
}

// NewPresenter returns a Presenter. Empty Config fields take their defaults.
func NewPresenter(acc *dom.Accessor, tog *dom.Toggler, cfg Config) *Presenter {
	def := DefaultConfig()
	if cfg.ButtonID == "" {
		cfg.ButtonID = def.ButtonID
	}
	if cfg.StarIconID == "" {
		cfg.StarIconID = def.StarIconID
	}
	if cfg.XIconID == "" {
		cfg.XIconID = def.XIconID
	}
	if cfg.FavoritedClass == "" {
		cfg.FavoritedClass = def.FavoritedClass
	}
	if tog == nil {
		tog = dom.NewToggler("")
	}
	return &Presenter{acc: acc, tog: tog, config: cfg}
}

// IDs returns the button, star icon and x icon ids for entityID.
func (p *Presenter) IDs(entityID string) (button, star, x string) {
	expand := func(tmpl string) string {
		return strings.ReplaceAll(tmpl, IDPlaceholder, entityID)
	}
	return expand(p.config.ButtonID), expand(p.config.StarIconID), expand(p.config.XIconID)
}

// SetState shows entityID as favorited or not.
func (p *Presenter) SetState(entityID string, favorited bool) {
	buttonID, starID, xID := p.IDs(entityID)
	els := p.acc.GetMany([]string{buttonID, starID, xID})

	p.tog.SetClass(els[buttonID], p.config.FavoritedClass, favorited)
	p.tog.SetVisibility(els[starID], !favorited)
	p.tog.SetVisibility(els[xID], favorited)
}

// State reports whether the button for entityID is shown as favorited. The
// second result is false when the button is missing.
func (p *Presenter) State(entityID string) (favorited, ok bool) {
	buttonID, _, _ := p.IDs(entityID)
	el, found := p.acc.Get(buttonID, true).Found()
	if !found {
		return false, false
	}
	return el.HasClass(p.config.FavoritedClass), true
}

// ToggleResponse is the body a favorite endpoint returns.
type ToggleResponse struct {
	Favorited bool `json:"favorited"`
}

// ToggleRequest is the body Apply posts.
type ToggleRequest struct {
	ID        string `json:"id"`
	Favorited bool   `json:"favorited"`
}

// Apply asks the endpoint at url to flip the favorite state of entityID and
// renders the state it returns. On error nothing is rendered.
func (p *Presenter) Apply(ctx context.Context, client *fetch.Client, url, entityID string) (bool, error) {
	current, _ := p.State(entityID)
	res, err := fetch.Post[ToggleResponse](ctx, client, url, ToggleRequest{ID: entityID, Favorited: !current})
	if err != nil {
		return current, err
	}
	p.SetState(entityID, res.Favorited)
	return res.Favorited, nil
}
