package handlers

import (
	"fmt"
	"strings"

	"github.com/imamik/psclink/internal/topology"
	"github.com/imamik/psclink/internal/ui/tui"
	"github.com/imamik/psclink/internal/util/naming"
)

// renderTopology declares the program against mocks. Replaced in tests.
var renderTopology = topology.Render

// Render prints the resource graph the configuration declares, without
// contacting the engine or the cloud.
func Render(configPath, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	cfg, err := resolveConfig(configPath)
	if err != nil {
		return err
	}

	planned, err := renderTopology(cfg)
	if err != nil {
		return err
	}

	return writeFormatted(stdout, format, planned, func() string {
		rows := make([]tui.PlanRow, len(planned))
		for i, p := range planned {
			rows[i] = tui.PlanRow{
				Type:       p.Type,
				Name:       p.Name,
				Side:       sideOf(cfg.Name, p.Provider),
				References: p.References,
			}
		}
		return tui.RenderPlan(fmt.Sprintf("%s (%s): planned resources", cfg.Name, cfg.StackName()), rows)
	})
}

// sideOf maps a provider resource name back to the project side it targets.
func sideOf(topologyName, provider string) string {
	for _, side := range []string{naming.SideProducer, naming.SideConsumer} {
		if provider == naming.Provider(topologyName, side) {
			return side
		}
	}
	return strings.TrimPrefix(provider, topologyName+"-")
}
