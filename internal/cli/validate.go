package cli

import (
	"os"

	"github.com/julianstephens/habitual/internal/importer"
)

// ValidateCmd checks an import file without contacting the backend
type ValidateCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML import file to check."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	f, err := os.Open(cmd.File)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx.println("Validating import file...")
	input, err := importer.Parse(f)
	if err != nil {
		return err
	}
	if err := importer.Validate(input, ctx.Config.Location()); err != nil {
		ctx.println()
		return err
	}

	ctx.printf("✓ %d habits, %d tasks: no problems found\n", len(input.Habits), len(input.Tasks))
	return nil
}
