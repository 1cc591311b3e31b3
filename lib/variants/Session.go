package variants

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ether/uiflex-go/lib/hooks"
	"github.com/ether/uiflex-go/lib/hooks/events"
	"github.com/ether/uiflex-go/lib/urlhash"
	"go.uber.org/zap"
)

// DefaultParameterName is the URL parameter carrying the selected variants.
const DefaultParameterName = "sap-ui-fl-control-variant-id"

type Direction int

const (
	DirectionNewEntry Direction = iota
	DirectionBackwards
	DirectionForwards
	DirectionUnknown
)

var directionNames = map[Direction]string{
	DirectionNewEntry:  "NewEntry",
	DirectionBackwards: "Backwards",
	DirectionForwards:  "Forwards",
	DirectionUnknown:   "Unknown",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown navigation direction %q", s)
}

// History reports the direction of the navigation that is being handled.
type History interface {
	Direction() Direction
}

type HistoryFunc func() Direction

func (f HistoryFunc) Direction() Direction {
	return f()
}

// State is a snapshot of the hash register.
type State struct {
	CurrentIndex *int       `json:"currentIndex"`
	HashParams   [][]string `json:"hashParams"`
}

// Session keeps the variant selection of one view in sync with the browser
// history. It is created per view and must be closed with it.
type Session struct {
	model         *Model
	changer       HashChanger
	history       History
	hooks         *hooks.Hook
	parameterName string
	logger        *zap.SugaredLogger

	mu           sync.Mutex
	currentIndex *int
	hashParams   [][]string
	replacedHash string
	attached     bool
	detach       []func()
}

func NewSession(model *Model, changer HashChanger, history History, hook *hooks.Hook, parameterName string, logger *zap.SugaredLogger) *Session {
	if parameterName == "" {
		parameterName = DefaultParameterName
	}
	return &Session{
		model:         model,
		changer:       changer,
		history:       history,
		hooks:         hook,
		parameterName: parameterName,
		logger:        logger,
		hashParams:    [][]string{},
	}
}

func (s *Session) Model() *Model {
	return s.model
}

func (s *Session) ParameterName() string {
	return s.parameterName
}

// Attach subscribes the session to the hash changer and handles the current
// hash as the first navigation. Attaching twice is a no-op.
func (s *Session) Attach() {
	s.mu.Lock()
	if s.attached {
		s.mu.Unlock()
		return
	}
	s.attached = true
	s.detach = append(s.detach, s.changer.Subscribe(s))
	if registry, ok := s.changer.(FilterRegistry); ok {
		s.detach = append(s.detach, registry.RegisterNavigationFilter(s.NavigationFilter))
	}
	if s.hooks != nil {
		id := s.hooks.EnqueueVariantSwitchedHook(s.variantSwitched)
		s.detach = append(s.detach, func() { s.hooks.DequeueHook(hooks.VariantSwitched, id) })
	}
	s.mu.Unlock()

	s.HashChanged("", "")
}

// Close detaches every subscription made by Attach.
func (s *Session) Close() {
	s.mu.Lock()
	detach := s.detach
	s.detach = nil
	s.attached = false
	s.mu.Unlock()
	for _, fn := range detach {
		fn()
	}
}

func (s *Session) HashReplaced(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replacedHash = hash
}

type hasherUpdate struct {
	parameters           []string
	updateURL            bool
	ignoreRegisterUpdate bool
}

// HashChanged moves the register along the browser history.
func (s *Session) HashChanged(newHash, _ string) {
	s.mu.Lock()
	if newHash != "" && s.replacedHash == newHash {
		s.replacedHash = ""
		s.mu.Unlock()
		return
	}
	update, ok := s.navigate()
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := s.UpdateHasherEntry(update.parameters, update.updateURL, update.ignoreRegisterUpdate); err != nil {
		s.logger.Errorf("could not update variant URL parameter: %v", err)
	}
}

func (s *Session) navigate() (hasherUpdate, bool) {
	var direction Direction
	if s.currentIndex == nil {
		index := 0
		s.currentIndex = &index
		direction = DirectionNewEntry
	} else {
		direction = s.history.Direction()
		switch direction {
		case DirectionBackwards:
			*s.currentIndex--
		case DirectionForwards, DirectionNewEntry:
			*s.currentIndex++
		case DirectionUnknown:
			*s.currentIndex = 0
			s.hashParams = [][]string{}
			s.model.SwitchToDefaultVariant()
		default:
			return hasherUpdate{}, false
		}
	}
	s.logger.Debugf("variant hash register of %s: %s navigation to index %d", s.model.Reference(), direction, *s.currentIndex)

	if *s.currentIndex < 0 {
		return hasherUpdate{parameters: []string{}, updateURL: true, ignoreRegisterUpdate: true}, true
	}
	if direction == DirectionBackwards {
		return hasherUpdate{parameters: s.registered(*s.currentIndex), updateURL: true, ignoreRegisterUpdate: true}, true
	}

	for _, variantID := range s.registered(*s.currentIndex) {
		s.model.SwitchToDefaultVariant(variantID)
	}
	parameters := s.urlParameters()
	return hasherUpdate{
		parameters:           parameters,
		ignoreRegisterUpdate: direction == DirectionUnknown && len(parameters) == 0,
	}, true
}

func (s *Session) registered(index int) []string {
	if index < 0 || index >= len(s.hashParams) {
		return nil
	}
	return s.hashParams[index]
}

func (s *Session) urlParameters() []string {
	parsed, err := urlhash.Parse(s.changer.Hash())
	if err != nil {
		s.logger.Warnf("could not parse URL hash: %v", err)
		return []string{}
	}
	values := parsed.Parameter(s.parameterName)
	if values == nil {
		return []string{}
	}
	return values
}

// UpdateHasherEntry records parameters for the current register index and,
// if updateURL is set, writes them to the URL.
func (s *Session) UpdateHasherEntry(parameters []string, updateURL, ignoreRegisterUpdate bool) error {
	if parameters == nil {
		parameters = []string{}
	}
	if !ignoreRegisterUpdate {
		s.mu.Lock()
		if s.currentIndex != nil && *s.currentIndex >= 0 {
			for len(s.hashParams) <= *s.currentIndex {
				s.hashParams = append(s.hashParams, nil)
			}
			s.hashParams[*s.currentIndex] = slices.Clone(parameters)
		}
		s.mu.Unlock()
	}
	if updateURL {
		return s.changer.SetTechnicalParameter(s.parameterName, parameters)
	}
	return nil
}

// CurrentHashParams returns the parameters registered for the current index.
func (s *Session) CurrentHashParams() ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentIndex == nil || *s.currentIndex < 0 || *s.currentIndex >= len(s.hashParams) {
		return nil, false
	}
	return slices.Clone(s.hashParams[*s.currentIndex]), true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := State{HashParams: make([][]string, len(s.hashParams))}
	if s.currentIndex != nil {
		index := *s.currentIndex
		state.CurrentIndex = &index
	}
	for i, params := range s.hashParams {
		state.HashParams[i] = slices.Clone(params)
	}
	return state
}

func (s *Session) variantSwitched(ctx *events.VariantSwitchedContext) {
	if ctx.Reference != s.model.Reference() || ctx.Scope != s.model.Scope() {
		return
	}
	if err := s.UpdateHasherEntry(s.model.CurrentParameters(), true, false); err != nil {
		s.logger.Errorf("could not write variant %s to the URL: %v", ctx.CurrentVariant, err)
	}
}

// NavigationFilter suppresses navigations that only change the variant
// parameter. The app specific route is dispatched as a hashChanged event
// instead, so the app router still sees it.
func (s *Session) NavigationFilter(newHash, oldHash string) FilterStatus {
	oldParsed, err := urlhash.Parse(oldHash)
	if err != nil {
		return FilterContinue
	}
	newParsed, err := urlhash.Parse(newHash)
	if err != nil {
		return FilterContinue
	}

	suppress := !slices.Equal(oldParsed.Parameter(s.parameterName), newParsed.Parameter(s.parameterName)) &&
		oldParsed.SameTarget(newParsed)
	if suppress {
		// the parameter has to be the only one wherever it is present
		suppress = false
		for _, parsed := range []*urlhash.ShellHash{oldParsed, newParsed} {
			if parsed.HasParameter(s.parameterName) {
				suppress = len(parsed.Params) == 1
			} else if len(parsed.Params) != 0 {
				suppress = false
			}
		}
	}
	if !suppress {
		return FilterContinue
	}

	s.changer.FireHashChanged(newParsed.Route(), oldParsed.Route())
	return FilterCustom
}
