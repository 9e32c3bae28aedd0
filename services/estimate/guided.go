package estimate

import (
	"context"
	"fmt"
	"strings"

	"junkbutler/models"
)

const (
	quantityQuestion = "Are you removing one item or multiple items?"
	itemsQuestion    = "What type of items are you removing? (Select all that apply)"
	photoRequest     = "Great! Could you upload a photo of the item(s)? This helps us provide an accurate estimate."
	resaleQuestion   = "Would you like us to attempt to resell your item(s)? You'll receive a portion of the sale price if we're successful."
	noItemsNotice    = "Please select at least one item type."
	generatingNotice = "Thank you for providing all the information! I'm generating your estimate now..."
	idleAck          = "Thanks for your message! I'll help you with that request."
)

var (
	QuantityOptions = []models.Option{
		{Value: string(models.QuantitySingle), Label: "Single Item"},
		{Value: string(models.QuantityMultiple), Label: "Multiple Items"},
	}

	ItemOptions = []models.Option{
		{Value: "furniture", Label: "Furniture"},
		{Value: "appliances", Label: "Appliances"},
		{Value: "electronics", Label: "Electronics"},
		{Value: "yard_waste", Label: "Yard Waste"},
		{Value: "construction", Label: "Construction Debris"},
		{Value: "household", Label: "Household Items"},
		{Value: "other", Label: "Other"},
	}

	ResaleOptions = []models.Option{
		{Value: "yes", Label: "Yes, try to resell"},
		{Value: "no", Label: "No, just remove them"},
	}
)

func findOption(options []models.Option, value string) (models.Option, bool) {
	value = strings.TrimSpace(value)
	for _, o := range options {
		if o.Value == value {
			return o, true
		}
	}
	return models.Option{}, false
}

// ItemLabel returns the display label of an item category, or the tag itself
// for categories outside the fixed list.
func ItemLabel(tag string) string {
	if o, ok := findOption(ItemOptions, tag); ok {
		return o.Label
	}
	return tag
}

// GuidedEngine runs the fixed question script: quantity, item categories,
// photos, resale.
type GuidedEngine struct {
	bridge *Bridge
	delays Delays
}

func NewGuidedEngine(bridge *Bridge, delays Delays) *GuidedEngine {
	return &GuidedEngine{bridge: bridge, delays: delays}
}

func (g *GuidedEngine) Start(ctx context.Context, d *Dialogue) error {
	if !d.guidedAt(StepIdle) {
		return ErrInvalidStep
	}
	if err := pause(ctx, g.delays.Init); err != nil {
		return err
	}
	g.prompt(d, StepQuantity)
	d.Mode = GuidedMode{Step: StepQuantity}
	return nil
}

func (g *GuidedEngine) SelectQuantity(ctx context.Context, d *Dialogue, value string) error {
	if !d.guidedAt(StepQuantity) {
		return ErrInvalidStep
	}
	opt, ok := findOption(QuantityOptions, value)
	if !ok {
		return fmt.Errorf("%w: quantity %q", ErrUnknownOption, value)
	}
	d.echo(opt.Label)
	d.Session.Quantity = models.Quantity(opt.Value)

	if err := pause(ctx, g.delays.Step); err != nil {
		return err
	}
	g.prompt(d, StepItems)
	d.Mode = GuidedMode{Step: StepItems}
	return nil
}

// ToggleItem only ever adds a category; selecting one twice is a no-op.
func (g *GuidedEngine) ToggleItem(_ context.Context, d *Dialogue, value string) error {
	if !d.guidedAt(StepItems) {
		return ErrInvalidStep
	}
	opt, ok := findOption(ItemOptions, value)
	if !ok {
		return fmt.Errorf("%w: item %q", ErrUnknownOption, value)
	}
	if d.Session.AddItem(opt.Value) {
		d.echo("Added: " + opt.Label)
	}
	return nil
}

func (g *GuidedEngine) ContinueItems(ctx context.Context, d *Dialogue) error {
	if !d.guidedAt(StepItems) {
		return ErrInvalidStep
	}
	if len(d.Session.Items) == 0 {
		d.say(noItemsNotice)
		return nil
	}

	labels := make([]string, 0, len(d.Session.Items))
	for _, it := range d.Session.Items {
		labels = append(labels, ItemLabel(it))
	}
	d.say("You've selected: " + strings.Join(labels, ", "))

	if err := pause(ctx, g.delays.Step); err != nil {
		return err
	}
	g.prompt(d, StepPhoto)
	d.Mode = GuidedMode{Step: StepPhoto}
	return nil
}

func (g *GuidedEngine) AddPhotos(ctx context.Context, d *Dialogue, refs []string) error {
	if !d.guidedAt(StepPhoto) {
		return ErrInvalidStep
	}
	kept := make([]string, 0, len(refs))
	for _, r := range refs {
		if r = strings.TrimSpace(r); r != "" {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return ErrNoPhotos
	}
	d.Session.AddPhotos(kept...)
	d.echo("", kept...)

	if err := pause(ctx, g.delays.Photo); err != nil {
		return err
	}
	g.prompt(d, StepResale)
	d.Mode = GuidedMode{Step: StepResale}
	return nil
}

// SelectResale answers the last question and hands the session to the bridge
// with the guided defaults filled in.
func (g *GuidedEngine) SelectResale(ctx context.Context, d *Dialogue, value string) (*models.CompletedEstimate, error) {
	if !d.guidedAt(StepResale) {
		return nil, ErrInvalidStep
	}
	opt, ok := findOption(ResaleOptions, value)
	if !ok {
		return nil, fmt.Errorf("%w: resale %q", ErrUnknownOption, value)
	}
	d.echo(opt.Label)
	d.Session.Resale = opt.Value == "yes"

	if err := pause(ctx, g.delays.Step); err != nil {
		return nil, err
	}
	d.say(generatingNotice)
	if err := pause(ctx, g.delays.Completion); err != nil {
		return nil, err
	}

	est, err := g.bridge.Complete(ctx, d, Candidate{Source: SourceGuided, Session: d.Session})
	if err != nil {
		return nil, err
	}
	d.Mode = GuidedMode{Step: StepDone}
	return est, nil
}

// prompt appends the question for step.
func (g *GuidedEngine) prompt(d *Dialogue, step Step) models.DialogueMessage {
	switch step {
	case StepItems:
		return d.ask(itemsQuestion, ItemOptions)
	case StepPhoto:
		return d.say(photoRequest)
	case StepResale:
		return d.ask(resaleQuestion, ResaleOptions)
	default:
		return d.ask(quantityQuestion, QuantityOptions)
	}
}
