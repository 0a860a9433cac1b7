package grayscott

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/iowarp/jarvis/internal/paramspec"
)

// settings mirrors the simulator's settings.json schema. Field names are the
// upstream binary's contract and must not change.
type settings struct {
	L                int     `json:"L"`
	Du               float64 `json:"Du"`
	Dv               float64 `json:"Dv"`
	F                float64 `json:"F"`
	K                float64 `json:"k"`
	Dt               float64 `json:"dt"`
	Plotgap          int     `json:"plotgap"`
	Steps            int     `json:"steps"`
	Noise            float64 `json:"noise"`
	Output           string  `json:"output"`
	Checkpoint       bool    `json:"checkpoint"`
	CheckpointOutput string  `json:"checkpoint_output,omitempty"`
	AdiosConfig      string  `json:"adios_config"`
	MeshType         string  `json:"mesh_type"`
}

// adiosTemplate is the ADIOS2 runtime configuration handed to the simulator.
// ##ENGINE## is substituted with the configured engine name.
const adiosTemplate = `<?xml version="1.0"?>
<adios-config>
    <io name="SimulationOutput">
        <engine type="##ENGINE##">
        </engine>
    </io>
    <io name="SimulationCheckpoint">
        <engine type="BP4">
        </engine>
    </io>
</adios-config>
`

func writeSettings(path, adiosPath string, cfg *paramspec.Config) error {
	steps := cfg.Int("steps")
	if cfg.Bool("full_run") {
		steps = fullRunSteps
	}

	s := settings{
		L:                cfg.Int("L"),
		Du:               cfg.Float("Du"),
		Dv:               cfg.Float("Dv"),
		F:                cfg.Float("F"),
		K:                cfg.Float("k"),
		Dt:               cfg.Float("dt"),
		Plotgap:          cfg.Int("plotgap"),
		Steps:            steps,
		Noise:            cfg.Float("noise"),
		Output:           cfg.Str("output"),
		Checkpoint:       cfg.Has("checkpoint") && cfg.Str("checkpoint") != "",
		CheckpointOutput: cfg.Str("checkpoint"),
		AdiosConfig:      adiosPath,
		MeshType:         "image",
	}

	data, err := json.MarshalIndent(&s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing settings %s: %w", path, err)
	}
	return nil
}

func writeAdiosConfig(path, engine string) error {
	content := strings.ReplaceAll(adiosTemplate, "##ENGINE##", engine)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing adios config %s: %w", path, err)
	}
	return nil
}
