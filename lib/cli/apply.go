package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ether/uiflex-go/lib/changefile"
	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/flex"
	"github.com/ether/uiflex-go/lib/hooks"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/registry"
	"github.com/ether/uiflex-go/lib/xmlview"
	"go.uber.org/zap"
)

type applyArgs struct {
	view      string
	changes   string
	component string
	out       string
	maxLayer  string
	strict    bool
}

var errMissingInput = errors.New("-view and -changes are required")

func parseApplyArgs(args []string, output io.Writer) (applyArgs, error) {
	var parsed applyArgs
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&parsed.view, "view", "", "XML view to process")
	fs.StringVar(&parsed.changes, "changes", "", "YAML or JSON file with the change definitions")
	fs.StringVar(&parsed.component, "component", "", "Id of the app component owning the view")
	fs.StringVar(&parsed.out, "out", "", "Write the processed view here instead of stdout")
	fs.StringVar(&parsed.maxLayer, "layer", "USER", "Highest layer whose changes are applied")
	fs.BoolVar(&parsed.strict, "strict", false, "Exit with an error when a change fails")

	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		parsed.view = args[0]
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return parsed, err
	}
	if parsed.view == "" || parsed.changes == "" {
		return parsed, errMissingInput
	}
	return parsed, nil
}

// ApplyChanges processes one XML view with the changes of a change file,
// without a server. All definitions have to share one reference.
func ApplyChanges(ctx context.Context, view *xmlview.Node, definitions []change.Definition, component string, maxLayer change.Layer, logger *zap.SugaredLogger) (*xmlview.Node, []flex.Result, error) {
	store := db.NewMemoryDataStore()
	reference := ""
	for _, def := range definitions {
		if reference == "" {
			reference = def.Reference
		}
		if def.Reference != reference {
			return nil, nil, fmt.Errorf("change %s belongs to %q, expected %q", def.FileName, def.Reference, reference)
		}
		if def.FileName == "" {
			def.FileName = change.NewID()
		}
		if err := store.SaveChange(ctx, def); err != nil {
			return nil, nil, err
		}
	}
	persistence := flex.NewChangePersistence(reference, store, maxLayer, logger)
	controller := flex.NewFlexController(persistence, registry.Default(), hooks.NewHook(), logger)
	return controller.ProcessXMLView(ctx, view, flex.XMLProcessOptions{AppComponentID: component})
}

func RunApply(logger *zap.SugaredLogger, args []string, stdout io.Writer) int {
	parsed, err := parseApplyArgs(args, stdout)
	if err != nil {
		fmt.Fprintln(stdout, "Usage: uiflex apply -view <view.xml> -changes <changes.yaml> -component <id> [-out file] [-layer USER] [-strict]")
		fmt.Fprintln(stdout, err)
		return 2
	}
	maxLayer, err := change.ParseLayer(parsed.maxLayer)
	if err != nil {
		fmt.Fprintln(stdout, err)
		return 2
	}

	viewFile, err := os.Open(parsed.view)
	if err != nil {
		logger.Errorf("could not open view: %v", err)
		return 1
	}
	defer viewFile.Close()
	view, err := xmlview.Parse(viewFile)
	if err != nil {
		logger.Errorf("could not parse view %s: %v", parsed.view, err)
		return 1
	}
	definitions, err := changefile.ReadFile(parsed.changes)
	if err != nil {
		logger.Errorf("could not read changes: %v", err)
		return 1
	}

	processed, results, err := ApplyChanges(context.Background(), view, definitions, parsed.component, maxLayer, logger)
	if err != nil {
		logger.Errorf("could not apply changes: %v", err)
		return 1
	}

	target := stdout
	if parsed.out != "" {
		file, err := os.Create(parsed.out)
		if err != nil {
			logger.Errorf("could not create %s: %v", parsed.out, err)
			return 1
		}
		defer file.Close()
		target = file
	}
	if err := xmlview.Encode(target, processed); err != nil {
		logger.Errorf("could not write view: %v", err)
		return 1
	}

	failed := flex.Failures(results)
	for _, r := range failed {
		logger.Warnf("change %s on %s failed: %v", r.ChangeID, r.ElementID, r.Err)
	}
	logger.Infof("applied %d of %d changes", len(results)-len(failed), len(results))
	if parsed.strict && len(failed) > 0 {
		return 3
	}
	return 0
}
