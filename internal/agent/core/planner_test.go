package core

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPlanNewsQueryGetsCanonicalSteps(t *testing.T) {
	p := NewPlanner()

	plan := p.Plan("Get me the latest news and summarize it")
	if !reflect.DeepEqual(plan, canonicalPlan) {
		t.Fatalf("expected canonical plan, got %v", plan)
	}
}

func TestPlanTechNewsQueryAppendsFilter(t *testing.T) {
	p := NewPlanner()

	plan := p.Plan("latest technology news")
	want := append(ExecutionPlan{}, canonicalPlan...)
	want = append(want, StepFilterTech)
	if !reflect.DeepEqual(plan, want) {
		t.Fatalf("expected filter appended after canonical steps, got %v", plan)
	}
	if plan[len(plan)-1] != StepFilterTech {
		t.Fatalf("expected filter last, got %v", plan[len(plan)-1])
	}
	if plan[len(plan)-2] != StepReport {
		t.Fatalf("expected report before filter, got %v", plan[len(plan)-2])
	}
}

func TestPlanTechOnlyQueryIsFilterOnly(t *testing.T) {
	p := NewPlanner()

	plan := p.Plan("ai")
	if !reflect.DeepEqual(plan, ExecutionPlan{StepFilterTech}) {
		t.Fatalf("expected single filter step, got %v", plan)
	}
}

func TestPlanUnrecognizedQueryFallsBack(t *testing.T) {
	p := NewPlanner()

	plan := p.Plan("what is the weather like")
	if !reflect.DeepEqual(plan, fallbackPlan) {
		t.Fatalf("expected fallback plan, got %v", plan)
	}
}

func TestPlanIsCaseInsensitive(t *testing.T) {
	p := NewPlanner()

	if !reflect.DeepEqual(p.Plan("NEWS"), p.Plan("news")) {
		t.Fatalf("expected identical plans regardless of case")
	}
	if !reflect.DeepEqual(p.Plan("Tech Headlines"), p.Plan("tech headlines")) {
		t.Fatalf("expected identical plans regardless of case")
	}
}

func TestPlanNeverEmpty(t *testing.T) {
	p := NewPlanner()

	for _, q := range []string{"", "   ", "xyzzy", "news", "tech", "tech news"} {
		if len(p.Plan(q)) == 0 {
			t.Fatalf("empty plan for query %q", q)
		}
	}
}

// genQuery produces free text optionally seeded with plan keywords.
func genQuery() gopter.Gen {
	words := gen.OneConstOf(
		"news", "articles", "headlines", "tech", "technology", "ai",
		"weather", "sports", "give", "me", "the", "latest", "today",
	)
	return gen.SliceOfN(4, words).Map(func(ws []string) string {
		return strings.Join(ws, " ")
	})
}

func TestPlanProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	p := NewPlanner()

	properties.Property("news queries start with the canonical steps", prop.ForAll(
		func(query string) bool {
			if !containsAny(strings.ToLower(query), newsKeywords) {
				return true
			}
			plan := p.Plan(query)
			if len(plan) < len(canonicalPlan) {
				return false
			}
			return reflect.DeepEqual(plan[:len(canonicalPlan)], canonicalPlan)
		},
		genQuery(),
	))

	properties.Property("keyword-free queries get the fallback plan", prop.ForAll(
		func(query string) bool {
			q := strings.ToLower(query)
			if containsAny(q, newsKeywords) || containsAny(q, techKeywords) {
				return true
			}
			return reflect.DeepEqual(p.Plan(query), fallbackPlan)
		},
		genQuery(),
	))

	properties.Property("filter appears iff a tech keyword appears, always last", prop.ForAll(
		func(query string) bool {
			plan := p.Plan(query)
			hasFilter := false
			for _, step := range plan {
				if step == StepFilterTech {
					hasFilter = true
				}
			}
			isTech := containsAny(strings.ToLower(query), techKeywords)
			if hasFilter != isTech {
				return false
			}
			if hasFilter && plan[len(plan)-1] != StepFilterTech {
				return false
			}
			return true
		},
		genQuery(),
	))

	properties.TestingRun(t)
}
