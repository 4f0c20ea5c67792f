package directory

import (
	"fmt"
	"mindline/app/config"
	"os"
	"strings"

	_ "embed"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"gopkg.in/yaml.v3"
)

//go:embed specialists.yaml
var defaultSpecialists []byte

// Service holds the specialist reference data. It is read-only after New,
// any number of turns may query it concurrently.
type Service struct {
	specialists []Specialist

	// sorted so that first-substring-match in ExtractLocation is deterministic
	locations []string
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	data := defaultSpecialists
	if cfg.Directory.SpecialistsFile != "" {
		fileData, err := os.ReadFile(cfg.Directory.SpecialistsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read specialists file: %w", err)
		}
		data = fileData
	}

	return load(data)
}

func load(data []byte) (*Service, error) {
	var file specialistsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse specialists data: %w", err)
	}

	if len(file.Specialists) == 0 {
		return nil, fmt.Errorf("specialist list is empty")
	}

	locations := pie.Sort(pie.Unique(pie.Map(file.Specialists, func(s Specialist) string {
		return s.Location
	})))

	return &Service{
		specialists: file.Specialists,
		locations:   locations,
	}, nil
}

// Locations returns the known specialist locations, sorted.
func (s *Service) Locations() []string {
	return s.locations
}

// ExtractLocation scans text for a known location. On a miss the original
// text is echoed back and found=false is authoritative.
func (s *Service) ExtractLocation(text string) (bool, string) {
	lowered := strings.ToLower(text)

	for _, location := range s.locations {
		if strings.Contains(lowered, strings.ToLower(location)) {
			return true, location
		}
	}

	return false, text
}

// ListSpecialists renders the specialists at a location found by
// ExtractLocation, or an apology naming the unmatched text.
func (s *Service) ListSpecialists(found bool, location string) string {
	if !found {
		return fmt.Sprintf("Sorry, we couldn't find any specialists in your location (%s).", location)
	}

	matched := pie.Filter(s.specialists, func(sp Specialist) bool {
		return strings.EqualFold(sp.Location, location)
	})

	lines := pie.Map(matched, func(sp Specialist) string {
		return fmt.Sprintf("Name: %s, Specialty: %s", sp.Name, sp.Specialty)
	})

	var builder strings.Builder
	builder.WriteString("Here is the list of available specialists based on your location:\n")
	builder.WriteString(strings.Join(lines, "\n"))
	builder.WriteString("\nWould you like me to schedule an appointment with a specialist to assist you?")

	return builder.String()
}
