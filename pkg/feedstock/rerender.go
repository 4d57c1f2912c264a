//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=rerender.go -destination=mock_rerender.gen.go -package=feedstock

package feedstock

import (
	"context"
	"fmt"
	"os/exec"
)

// Rerenderer regenerates a feedstock's CI configuration after a recipe
// change. conda-smithy is an external tool, so this is the one place the
// updater shells out.
type Rerenderer interface {
	Rerender(ctx context.Context, dir string) error
}

type smithyRerenderer struct{}

// NewRerenderer returns a Rerenderer backed by the conda-smithy CLI.
func NewRerenderer() Rerenderer {
	return &smithyRerenderer{}
}

func (r *smithyRerenderer) Rerender(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, "conda-smithy", "rerender", "--no-check-uptodate")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("conda-smithy rerender failed: %w: %s", err, out)
	}
	return nil
}
