package commstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
)

//go:embed seed/bodyparts.json
var defaultSeedData []byte

// seedBodyPart mirrors one entry of the bundled body-part catalog.
type seedBodyPart struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Image       string `json:"image"`
	Symptoms    []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"`
	} `json:"symptoms"`
}

// seedDefaults loads the body-part catalog into the emergencies collection.
// Failures are logged and swallowed: the store works without defaults.
func (s *service) seedDefaults(ctx context.Context) {
	if len(s.seed) == 0 {
		slog.Info("no seed dataset bundled, skipping defaults")
		return
	}

	var parts []seedBodyPart
	if err := json.Unmarshal(s.seed, &parts); err != nil {
		slog.Warn("seed dataset is malformed, skipping defaults", "error", err)
		return
	}

	seeded := 0
	for _, p := range parts {
		e := &Emergency{
			Name:        p.Name,
			Description: p.Description,
			Icon:        p.Icon,
			Image:       p.Image,
			CreatedAt:   s.stamp(),
		}
		for _, sym := range p.Symptoms {
			e.Symptoms = append(e.Symptoms, Symptom{
				Name:        sym.Name,
				Description: sym.Description,
				Image:       sym.Image,
			})
		}
		if err := s.repo.CreateEmergency(ctx, e); err != nil {
			slog.Warn("failed to seed body part", "name", p.Name, "error", err)
			continue
		}
		seeded++
	}
	slog.Info("seeded default dataset", "bodyParts", seeded)
}
