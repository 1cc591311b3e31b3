package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	models "github.com/ether/uiflex-go/lib/models/ws"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const navigationPath = "/flex/navigation"

// Navigator plays the browser side of a navigation session. It keeps the
// current hash and follows the setParameter requests of the server.
type Navigator struct {
	host      string
	reference string
	conn      *websocket.Conn
	connWrite sync.Mutex
	logger    *zap.SugaredLogger

	hashLock sync.RWMutex
	hash     string

	eventsLock sync.RWMutex
	events     map[string][]func(json.RawMessage)
	closeChan  chan struct{}
	closeOnce  sync.Once
}

func NewNavigator(host, reference, hash string, conn *websocket.Conn, logger *zap.SugaredLogger) *Navigator {
	return &Navigator{
		host:      host,
		reference: reference,
		hash:      hash,
		conn:      conn,
		logger:    logger,
		events:    make(map[string][]func(json.RawMessage)),
		closeChan: make(chan struct{}),
	}
}

func (n *Navigator) On(event string, handler func(json.RawMessage)) {
	n.eventsLock.Lock()
	defer n.eventsLock.Unlock()
	n.events[event] = append(n.events[event], handler)
}

func (n *Navigator) emit(event string, data json.RawMessage) {
	n.eventsLock.RLock()
	defer n.eventsLock.RUnlock()
	for _, handler := range n.events[event] {
		handler(data)
	}
}

func (n *Navigator) Hash() string {
	n.hashLock.RLock()
	defer n.hashLock.RUnlock()
	return n.hash
}

func (n *Navigator) setHash(hash string) string {
	n.hashLock.Lock()
	defer n.hashLock.Unlock()
	old := n.hash
	n.hash = hash
	return old
}

func (n *Navigator) Done() <-chan struct{} {
	return n.closeChan
}

func (n *Navigator) Close() {
	n.closeOnce.Do(func() {
		close(n.closeChan)
		if n.conn != nil {
			_ = n.conn.Close()
		}
		n.emit("disconnect", nil)
	})
}

func (n *Navigator) send(messageType string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	n.connWrite.Lock()
	defer n.connWrite.Unlock()
	return n.conn.WriteJSON(models.EventMessage{Type: messageType, Data: raw})
}

// Navigate moves to hash like a browser would, direction being one of
// NewEntry, Backwards, Forwards and Unknown.
func (n *Navigator) Navigate(hash, direction string) error {
	old := n.setHash(hash)
	return n.send(models.TypeHashChanged, models.HashChanged{NewHash: hash, OldHash: old, Direction: direction})
}

// Replace swaps the current hash without a history entry.
func (n *Navigator) Replace(hash string) error {
	n.setHash(hash)
	return n.send(models.TypeHashReplaced, models.HashReplaced{Hash: hash})
}

func (n *Navigator) Activate(target, variantID string) error {
	return n.send(models.TypeActivateVariant, models.ActivateVariant{Target: target, VariantID: variantID})
}

func (n *Navigator) RequestState() error {
	return n.send(models.TypeGetState, struct{}{})
}

func (n *Navigator) handle(msg models.EventMessage) {
	if msg.Type == models.TypeSetParameter {
		var data models.SetParameter
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			n.logger.Errorf("invalid setParameter: %v", err)
			return
		}
		if err := n.Replace(data.Hash); err != nil {
			n.logger.Errorf("could not confirm hash: %v", err)
		}
	}
	n.emit(msg.Type, msg.Data)
}

func (n *Navigator) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Errorf("panic in recv goroutine: %v", r)
		}
		n.Close()
	}()
	for {
		var msg models.EventMessage
		if err := n.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				n.logger.Errorf("error: %v", err)
			}
			return
		}
		n.logger.Debugf("Received: %s %s", msg.Type, msg.Data)
		n.handle(msg)
	}
}

// NavigationURL builds the websocket address of the navigation endpoint
// below host.
func NavigationURL(host, reference, hash string) (string, error) {
	parsed, err := url.Parse(host)
	if err != nil {
		return "", err
	}
	switch parsed.Scheme {
	case "http", "":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/") + navigationPath
	parsed.RawQuery = url.Values{"reference": {reference}, "hash": {hash}}.Encode()
	return parsed.String(), nil
}

// Connect dials the navigation endpoint and starts reading. The first
// message of the server is the state of the session.
func Connect(host, reference, hash string, logger *zap.SugaredLogger) (*Navigator, error) {
	address, err := NavigationURL(host, reference, hash)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Connecting to WebSocket at %s", address)
	conn, resp, err := websocket.DefaultDialer.Dial(address, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket connection failed with %s: %w", resp.Status, err)
		}
		return nil, fmt.Errorf("websocket connection failed: %w", err)
	}
	navigator := NewNavigator(host, reference, hash, conn, logger)
	go navigator.readLoop()
	return navigator, nil
}

type navigateArgs struct {
	host      string
	reference string
	hash      string
}

var errMissingReference = errors.New("-reference is required")

func parseCLIArgs(args []string) (navigateArgs, error) {
	var parsed navigateArgs
	fs := flag.NewFlagSet("navigate", flag.ContinueOnError)
	fs.StringVar(&parsed.host, "host", "http://127.0.0.1:9002", "Base URL of the server")
	fs.StringVar(&parsed.reference, "reference", "", "Reference of the app whose variants are navigated")
	fs.StringVar(&parsed.reference, "r", "", "Reference (shorthand)")
	fs.StringVar(&parsed.hash, "hash", "", "Hash the session starts with")

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		parsed.host = args[0]
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return parsed, err
	}
	if parsed.reference == "" {
		return parsed, errMissingReference
	}
	return parsed, nil
}

// runCommand executes one line typed by the user. It reports false once the
// session should end.
func (n *Navigator) runCommand(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true, nil
	}
	arg := func(i int) string {
		if len(fields) > i {
			return fields[i]
		}
		return ""
	}
	switch fields[0] {
	case "go":
		return true, n.Navigate(arg(1), "NewEntry")
	case "back":
		return true, n.Navigate(arg(1), "Backwards")
	case "forward":
		return true, n.Navigate(arg(1), "Forwards")
	case "replace":
		return true, n.Replace(arg(1))
	case "activate":
		return true, n.Activate(arg(2), arg(1))
	case "state":
		return true, n.RequestState()
	case "quit", "exit":
		return false, nil
	default:
		return true, fmt.Errorf("unknown command %q", fields[0])
	}
}

const navigateHelp = `Commands:
  go <hash>                    navigate to a new history entry
  back <hash> | forward <hash> navigate within the history
  replace <hash>               replace the hash without history entry
  activate <variant> [target]  switch a variant
  state                        print the session state
  quit`

func RunNavigate(logger *zap.SugaredLogger, args []string, stdin io.Reader, stdout io.Writer) int {
	parsed, err := parseCLIArgs(args)
	if err != nil {
		fmt.Fprintln(stdout, "Usage: uiflex navigate [host] -reference <ref> [-hash <hash>]")
		fmt.Fprintln(stdout, err)
		return 2
	}

	navigator, err := Connect(parsed.host, parsed.reference, parsed.hash, logger)
	if err != nil {
		logger.Errorf("could not connect: %v", err)
		return 1
	}
	defer navigator.Close()

	var outLock sync.Mutex
	printer := func(label string) func(json.RawMessage) {
		return func(data json.RawMessage) {
			outLock.Lock()
			defer outLock.Unlock()
			fmt.Fprintf(stdout, "%s %s\n", label, data)
		}
	}
	navigator.On(models.TypeState, printer("state"))
	navigator.On(models.TypeRouteChanged, printer("route"))
	navigator.On(models.TypeError, printer("error"))
	navigator.On(models.TypeVariantsChanged, printer("variants changed"))
	navigator.On(models.TypeSetParameter, func(json.RawMessage) {
		outLock.Lock()
		defer outLock.Unlock()
		fmt.Fprintf(stdout, "hash %s\n", navigator.Hash())
	})
	fmt.Fprintln(stdout, navigateHelp)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-navigator.Done():
			logger.Infof("Server closed the session")
			return 1
		case line, ok := <-lines:
			if !ok {
				return 0
			}
			proceed, err := navigator.runCommand(line)
			if err != nil {
				outLock.Lock()
				fmt.Fprintln(stdout, err)
				outLock.Unlock()
			}
			if !proceed {
				logger.Infof("Stopping CLI")
				return 0
			}
		}
	}
}
