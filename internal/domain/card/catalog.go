package card

// Catalog is the immutable pool of definitions a match draws from. It is
// built once by the content loader and treated as frozen afterwards.
type Catalog struct {
	Scientists    []ScientistDef
	Research      []ResearchCard
	Journals      []Journal
	Grants        []Grant
	Projects      []LargeProject
	Scenarios     []Scenario
	Crises        []Crisis
	Intrigues     []IntrigueCard
	Opportunities []OpportunityCard
	Institutes    []Institute

	scenarioIndex map[string]*Scenario
	journalIndex  map[string]*Journal
	grantIndex    map[string]*Grant
	projectIndex  map[string]*LargeProject
}

// BuildIndexes wires the lookup maps. Call once after the slices are filled.
func (c *Catalog) BuildIndexes() {
	c.scenarioIndex = make(map[string]*Scenario, len(c.Scenarios))
	for i := range c.Scenarios {
		c.scenarioIndex[c.Scenarios[i].ID] = &c.Scenarios[i]
	}
	c.journalIndex = make(map[string]*Journal, len(c.Journals))
	for i := range c.Journals {
		c.journalIndex[c.Journals[i].ID] = &c.Journals[i]
	}
	c.grantIndex = make(map[string]*Grant, len(c.Grants))
	for i := range c.Grants {
		c.grantIndex[c.Grants[i].ID] = &c.Grants[i]
	}
	c.projectIndex = make(map[string]*LargeProject, len(c.Projects))
	for i := range c.Projects {
		c.projectIndex[c.Projects[i].ID] = &c.Projects[i]
	}
}

// ScenarioByID resolves a scenario definition, or nil.
func (c *Catalog) ScenarioByID(id string) *Scenario {
	return c.scenarioIndex[id]
}

// JournalByID resolves a journal definition, or nil.
func (c *Catalog) JournalByID(id string) *Journal {
	return c.journalIndex[id]
}

// GrantByID resolves a grant definition, or nil.
func (c *Catalog) GrantByID(id string) *Grant {
	return c.grantIndex[id]
}

// ProjectByID resolves a large project definition, or nil.
func (c *Catalog) ProjectByID(id string) *LargeProject {
	return c.projectIndex[id]
}
