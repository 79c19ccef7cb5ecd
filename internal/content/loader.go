// Package content loads the frozen card catalogue from tabular CSV inputs.
// All prose fields (rewards, goals, requirements, effect DSL, crisis
// schedules) are parsed into structured records here, once; the engine never
// re-parses strings at runtime. Content errors abort the load.
package content

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/hexboard"
	"github.com/principia-juego/server/internal/platform/logger"
)

// ErrMissingField is the sentinel for a required column that is absent or
// empty. The wrapping error carries file and row context.
var ErrMissingField = errors.New("missing_required_field")

// Loader reads the catalogue tables from a content directory.
type Loader struct {
	dir string
	log *logger.Logger
}

// NewLoader creates a loader rooted at the content directory.
func NewLoader(dir string, log *logger.Logger) *Loader {
	return &Loader{dir: dir, log: log}
}

// Load reads every table and returns the frozen catalogue.
func (l *Loader) Load() (*card.Catalog, error) {
	cat := &card.Catalog{}

	steps := []struct {
		file     string
		required bool
		load     func(rows []row) error
	}{
		{"scientists.csv", true, func(rows []row) error { return l.loadScientists(cat, rows) }},
		{"research.csv", true, func(rows []row) error { return l.loadResearch(cat, rows) }},
		{"journals.csv", true, func(rows []row) error { return l.loadJournals(cat, rows) }},
		{"grants.csv", true, func(rows []row) error { return l.loadGrants(cat, rows) }},
		{"projects.csv", true, func(rows []row) error { return l.loadProjects(cat, rows) }},
		{"scenarios.csv", true, func(rows []row) error { return l.loadScenarios(cat, rows) }},
		{"crises.csv", false, func(rows []row) error { return l.loadCrises(cat, rows) }},
		{"intrigues.csv", false, func(rows []row) error { return l.loadIntrigues(cat, rows) }},
		{"opportunities.csv", false, func(rows []row) error { return l.loadOpportunities(cat, rows) }},
		{"institutes.csv", false, func(rows []row) error { return l.loadInstitutes(cat, rows) }},
	}
	for _, step := range steps {
		rows, err := l.readTable(step.file)
		if err != nil {
			if !step.required && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if err := step.load(rows); err != nil {
			return nil, err
		}
	}

	cat.BuildIndexes()
	l.log.Info(fmt.Sprintf("Catalogue loaded: %d scientists, %d research, %d journals, %d grants, %d projects, %d scenarios",
		len(cat.Scientists), len(cat.Research), len(cat.Journals), len(cat.Grants), len(cat.Projects), len(cat.Scenarios)))
	return cat, nil
}

// row is one CSV record addressed by column name.
type row struct {
	file   string
	line   int
	values map[string]string
}

// get returns a required column, or a missing_required_field error.
func (r row) get(col string) (string, error) {
	v := strings.TrimSpace(r.values[col])
	if v == "" {
		return "", fmt.Errorf("%w: %s row %d column %q", ErrMissingField, r.file, r.line, col)
	}
	return v, nil
}

// optional returns a column that may be absent or empty.
func (r row) optional(col string) string {
	return strings.TrimSpace(r.values[col])
}

func (r row) getInt(col string) (int, error) {
	v, err := r.get(col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s row %d column %q: %w", r.file, r.line, col, err)
	}
	return n, nil
}

func (l *Loader) readTable(file string) ([]row, error) {
	path := filepath.Join(l.dir, file)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrMissingField, file)
	}

	header := records[0]
	rows := make([]row, 0, len(records)-1)
	for i, rec := range records[1:] {
		values := make(map[string]string, len(header))
		for j, col := range header {
			if j < len(rec) {
				values[strings.TrimSpace(col)] = rec[j]
			}
		}
		rows = append(rows, row{file: file, line: i + 2, values: values})
	}
	return rows, nil
}

// rowID returns the explicit id column or a slug derived from the name.
func rowID(r row, name string) string {
	if id := r.optional("id"); id != "" {
		return id
	}
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

func (l *Loader) loadScientists(cat *card.Catalog, rows []row) error {
	for _, r := range rows {
		name, err := r.get("name")
		if err != nil {
			return err
		}
		kind, err := r.get("kind")
		if err != nil {
			return err
		}
		salary, err := r.getInt("salary")
		if err != nil {
			return err
		}
		hexBonus, err := r.getInt("hex_bonus")
		if err != nil {
			return err
		}
		cat.Scientists = append(cat.Scientists, card.ScientistDef{
			ID:           rowID(r, name),
			Name:         name,
			Kind:         kind,
			Field:        r.optional("field"),
			Salary:       NormalizeSalary(salary),
			HexBonus:     hexBonus,
			SpecialBonus: r.optional("special_bonus"),
			Description:  r.optional("description"),
		})
	}
	return nil
}

func (l *Loader) loadResearch(cat *card.Catalog, rows []row) error {
	for _, r := range rows {
		name, err := r.get("name")
		if err != nil {
			return err
		}
		mapSource, err := r.get("hex_map")
		if err != nil {
			return err
		}
		board, err := hexboard.ParseMap(mapSource)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		basic, err := ParseReward(r.optional("basic_reward"))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		bonus, err := ParseReward(r.optional("bonus_reward"))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		cat.Research = append(cat.Research, card.ResearchCard{
			ID:          rowID(r, name),
			Name:        name,
			Field:       r.optional("field"),
			MapSource:   mapSource,
			Board:       board,
			BasicReward: basic,
			BonusReward: bonus,
			Description: r.optional("description"),
		})
	}
	return nil
}

func (l *Loader) loadJournals(cat *card.Catalog, rows []row) error {
	for _, r := range rows {
		name, err := r.get("name")
		if err != nil {
			return err
		}
		impact, err := r.getInt("impact_factor")
		if err != nil {
			return err
		}
		pbCost, err := r.getInt("pb_cost")
		if err != nil {
			return err
		}
		pzReward, err := r.getInt("pz_reward")
		if err != nil {
			return err
		}
		minRep := 0
		if v := r.optional("min_reputation"); v != "" {
			minRep, err = strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s row %d column min_reputation: %w", r.file, r.line, err)
			}
		}
		cat.Journals = append(cat.Journals, card.Journal{
			ID:            rowID(r, name),
			Name:          name,
			ImpactFactor:  impact,
			PBCost:        pbCost,
			MinReputation: minRep,
			RequiredField: r.optional("required_field"),
			PZReward:      pzReward,
			SpecialBonus:  r.optional("special_bonus"),
			Description:   r.optional("description"),
		})
	}
	return nil
}

func (l *Loader) loadGrants(cat *card.Catalog, rows []row) error {
	for _, r := range rows {
		name, err := r.get("name")
		if err != nil {
			return err
		}
		goalText, err := r.get("goal")
		if err != nil {
			return err
		}
		goal, err := ParseGoal(goalText)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		req, err := ParseGrantRequirements(r.optional("requirements"))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		reward, err := ParseReward(r.optional("reward"))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		roundBonus, err := ParseReward(r.optional("round_bonus"))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		cat.Grants = append(cat.Grants, card.Grant{
			ID:           rowID(r, name),
			Name:         name,
			Requirements: req,
			Goal:         goal,
			Reward:       reward,
			RoundBonus:   roundBonus,
			Description:  r.optional("description"),
		})
	}
	return nil
}

func (l *Loader) loadProjects(cat *card.Catalog, rows []row) error {
	for _, r := range rows {
		name, err := r.get("name")
		if err != nil {
			return err
		}
		reqText, err := r.get("requirements")
		if err != nil {
			return err
		}
		req, err := ParseProjectRequirements(reqText)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		directorReward, err := ParseReward(r.optional("director_reward"))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		memberReward, err := ParseReward(r.optional("member_reward"))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		cat.Projects = append(cat.Projects, card.LargeProject{
			ID:             rowID(r, name),
			Name:           name,
			Requirements:   req,
			DirectorReward: directorReward,
			MemberReward:   memberReward,
			Description:    r.optional("description"),
		})
	}
	return nil
}

func (l *Loader) loadScenarios(cat *card.Catalog, rows []row) error {
	for _, r := range rows {
		name, err := r.get("name")
		if err != nil {
			return err
		}
		maxRounds, err := r.getInt("max_rounds")
		if err != nil {
			return err
		}
		crisisCount, err := r.getInt("crisis_count")
		if err != nil {
			return err
		}
		// The schedule is explicit content; a missing field aborts the load
		// rather than falling back to a silent default.
		roundsText, err := r.get("crisis_rounds")
		if err != nil {
			return err
		}
		crisisRounds, err := ParseCrisisRounds(roundsText)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		cat.Scenarios = append(cat.Scenarios, card.Scenario{
			ID:                rowID(r, name),
			Name:              name,
			Story:             r.optional("story"),
			Modifiers:         r.optional("modifiers"),
			MaxRounds:         maxRounds,
			VictoryConditions: r.optional("victory_conditions"),
			CrisisCount:       crisisCount,
			CrisisRounds:      crisisRounds,
		})
	}
	return nil
}

func (l *Loader) loadCrises(cat *card.Catalog, rows []row) error {
	for _, r := range rows {
		name, err := r.get("name")
		if err != nil {
			return err
		}
		effects, err := ParseEffects(r.optional("effects"))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		cat.Crises = append(cat.Crises, card.Crisis{
			ID:          rowID(r, name),
			Name:        name,
			Effects:     effects,
			Description: r.optional("description"),
		})
	}
	return nil
}

func (l *Loader) loadIntrigues(cat *card.Catalog, rows []row) error {
	for _, r := range rows {
		name, err := r.get("name")
		if err != nil {
			return err
		}
		effects, err := ParseEffects(r.optional("effects"))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		cat.Intrigues = append(cat.Intrigues, card.IntrigueCard{
			ID:          rowID(r, name),
			Name:        name,
			Effects:     effects,
			Description: r.optional("description"),
		})
	}
	return nil
}

func (l *Loader) loadOpportunities(cat *card.Catalog, rows []row) error {
	for _, r := range rows {
		name, err := r.get("name")
		if err != nil {
			return err
		}
		effects, err := ParseEffects(r.optional("effects"))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", r.file, r.line, err)
		}
		cat.Opportunities = append(cat.Opportunities, card.OpportunityCard{
			ID:          rowID(r, name),
			Name:        name,
			Effects:     effects,
			Description: r.optional("description"),
		})
	}
	return nil
}

func (l *Loader) loadInstitutes(cat *card.Catalog, rows []row) error {
	for _, r := range rows {
		name, err := r.get("name")
		if err != nil {
			return err
		}
		cat.Institutes = append(cat.Institutes, card.Institute{
			ID:          rowID(r, name),
			Name:        name,
			Description: r.optional("description"),
		})
	}
	return nil
}
