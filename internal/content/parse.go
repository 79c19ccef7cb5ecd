package content

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/principia-juego/server/internal/domain/card"
)

// ParseReward converts reward prose like "10K + 2 PZ" into a structured
// bundle. Empty text and "-" mean no reward. Credits are canonicalised to
// raw units (1K = 1000).
func ParseReward(text string) (card.Reward, error) {
	var r card.Reward
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return r, nil
	}
	for _, part := range strings.Split(text, "+") {
		amount, unit, err := splitAmount(part)
		if err != nil {
			return card.Reward{}, err
		}
		switch unit {
		case "K":
			r.Credits += amount * 1000
		case "PZ":
			r.PZ += amount
		case "PB":
			r.PB += amount
		case "REP":
			r.Reputation += amount
		default:
			return card.Reward{}, fmt.Errorf("unknown reward unit %q in %q", unit, text)
		}
	}
	return r, nil
}

// splitAmount takes a segment like "10K" or "2 PZ" apart.
func splitAmount(part string) (int, string, error) {
	s := strings.TrimSpace(part)
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9') {
		i++
	}
	if i == 0 {
		return 0, "", fmt.Errorf("reward segment %q lacks an amount", part)
	}
	amount, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, "", fmt.Errorf("reward segment %q: %w", part, err)
	}
	unit := strings.ToUpper(strings.TrimSpace(s[i:]))
	return amount, unit, nil
}

// ParseGoal converts grant goal prose into a structured goal. Known forms:
// "N publications", "N completed research", "found a consortium",
// "N activity points".
func ParseGoal(text string) (card.GrantGoal, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if strings.Contains(s, "consortium") {
		return card.GrantGoal{Kind: card.GoalFoundConsortium}, nil
	}

	fields := strings.Fields(s)
	if len(fields) < 2 {
		return card.GrantGoal{}, fmt.Errorf("unparseable grant goal %q", text)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return card.GrantGoal{}, fmt.Errorf("grant goal %q lacks a count: %w", text, err)
	}
	rest := strings.Join(fields[1:], " ")
	switch {
	case strings.HasPrefix(rest, "publication"):
		return card.GrantGoal{Kind: card.GoalPublications, N: n}, nil
	case strings.HasPrefix(rest, "completed research"):
		return card.GrantGoal{Kind: card.GoalCompletedResearch, N: n}, nil
	case strings.HasPrefix(rest, "activity point"):
		return card.GrantGoal{Kind: card.GoalActivityPoints, N: n}, nil
	}
	return card.GrantGoal{}, fmt.Errorf("unknown grant goal %q", text)
}

// ParseGrantRequirements converts requirement prose like
// "reputation 2 + 1 completed research" into gates. Empty means no gate.
func ParseGrantRequirements(text string) (card.GrantRequirements, error) {
	var req card.GrantRequirements
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return req, nil
	}
	for _, part := range strings.Split(strings.ToLower(text), "+") {
		s := strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(s, "reputation"):
			n, err := trailingInt(s)
			if err != nil {
				return req, fmt.Errorf("grant requirement %q: %w", part, err)
			}
			req.MinReputation = n
		case strings.HasSuffix(s, "completed research"):
			n, err := leadingInt(s)
			if err != nil {
				return req, fmt.Errorf("grant requirement %q: %w", part, err)
			}
			req.MinCompletedResearch = n
		default:
			return req, fmt.Errorf("unknown grant requirement %q", part)
		}
	}
	return req, nil
}

// ParseProjectRequirements converts large-project requirement prose into
// thresholds. Segments are joined with "+": "<n> PB", "<n>K", "<n> completed
// research", "professor", "field:<name>".
func ParseProjectRequirements(text string) (card.ProjectRequirements, error) {
	var req card.ProjectRequirements
	for _, part := range strings.Split(text, "+") {
		s := strings.TrimSpace(part)
		if s == "" {
			continue
		}
		lower := strings.ToLower(s)
		switch {
		case lower == "professor":
			req.NeedsProfessor = true
		case strings.HasPrefix(lower, "field:"):
			req.FieldConstraints = append(req.FieldConstraints, strings.TrimSpace(s[len("field:"):]))
		case strings.HasSuffix(lower, "completed research"):
			n, err := leadingInt(lower)
			if err != nil {
				return req, fmt.Errorf("project requirement %q: %w", part, err)
			}
			req.CompletedResearch = n
		default:
			amount, unit, err := splitAmount(s)
			if err != nil {
				return req, fmt.Errorf("project requirement %q: %w", part, err)
			}
			switch unit {
			case "PB":
				req.PB = amount
			case "K":
				req.Credits = amount * 1000
			default:
				return req, fmt.Errorf("unknown project requirement unit %q", unit)
			}
		}
	}
	return req, nil
}

// ParseCrisisRounds converts the explicit crisis schedule "3;5;7" into round
// numbers. The field is required content; there is no fallback schedule.
func ParseCrisisRounds(text string) ([]int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("crisis_rounds is empty")
	}
	var rounds []int
	for _, part := range strings.Split(text, ";") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("crisis_rounds segment %q: %w", part, err)
		}
		rounds = append(rounds, n)
	}
	return rounds, nil
}

// ParseEffects converts the effect DSL into structured records. Effects are
// separated by ";"; each is "target:parameter:op:value[:duration[:condition]]"
// or the special short forms "target:steal_scientist" / "target:skip_grant".
func ParseEffects(text string) ([]card.Effect, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return nil, nil
	}
	var effects []card.Effect
	for _, chunk := range strings.Split(text, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		eff, err := parseEffect(chunk)
		if err != nil {
			return nil, err
		}
		effects = append(effects, eff)
	}
	return effects, nil
}

func parseEffect(chunk string) (card.Effect, error) {
	fields := strings.Split(chunk, ":")
	if len(fields) < 2 {
		return card.Effect{}, fmt.Errorf("effect %q is too short", chunk)
	}
	target := card.TargetType(strings.TrimSpace(fields[0]))
	switch target {
	case card.TargetSelf, card.TargetOpponent, card.TargetAll, card.TargetAllOthers:
	default:
		return card.Effect{}, fmt.Errorf("effect %q: unknown target %q", chunk, fields[0])
	}

	second := strings.TrimSpace(fields[1])
	if special := card.SpecialType(second); special == card.SpecialStealScientist || special == card.SpecialSkipGrant {
		return card.Effect{Target: target, Special: special}, nil
	}
	if len(fields) < 4 {
		return card.Effect{}, fmt.Errorf("effect %q lacks op/value", chunk)
	}

	param := card.Parameter(second)
	switch param {
	case card.ParamCredits, card.ParamPB, card.ParamPZ, card.ParamReputation, card.ParamHexTokens:
	default:
		return card.Effect{}, fmt.Errorf("effect %q: unknown parameter %q", chunk, second)
	}
	op := card.Operation(strings.TrimSpace(fields[2]))
	switch op {
	case card.OpAdd, card.OpSub, card.OpSet:
	default:
		return card.Effect{}, fmt.Errorf("effect %q: unknown operation %q", chunk, fields[2])
	}
	value, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return card.Effect{}, fmt.Errorf("effect %q: bad value: %w", chunk, err)
	}

	eff := card.Effect{Target: target, Parameter: param, Operation: op, Value: value}
	if len(fields) > 4 && strings.TrimSpace(fields[4]) != "" {
		duration, err := strconv.Atoi(strings.TrimSpace(fields[4]))
		if err != nil {
			return card.Effect{}, fmt.Errorf("effect %q: bad duration: %w", chunk, err)
		}
		eff.Duration = duration
	}
	if len(fields) > 5 {
		eff.Condition = strings.TrimSpace(fields[5])
	}
	return eff, nil
}

// NormalizeSalary canonicalises salaries to raw credits. Legacy content mixes
// raw integers with thousands; values below 100 are read as thousands.
func NormalizeSalary(v int) int {
	if v > 0 && v < 100 {
		return v * 1000
	}
	return v
}

func leadingInt(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("no leading integer")
	}
	return strconv.Atoi(fields[0])
}

func trailingInt(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("no trailing integer")
	}
	return strconv.Atoi(fields[len(fields)-1])
}
