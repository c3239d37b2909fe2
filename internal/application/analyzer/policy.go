package analyzer

import "github.com/forgespace/idea-analyzer/internal/domain/ideas"

// Heuristic scoring policy. Every score is the sum of its terms clamped to [0,100];
// each term is non-decreasing in the feature it reads except where noted.
//
//	viability   = 35 + min(len/20, 20) + 5*min(tags, 5) + 5*min(market, 3) + maturity
//	creativity  = 30 + 8*min(innovation, 4) + 4*min(tags, 5) + min(len/25, 15) + 2*min(sentences, 5)
//	feasibility = 85 - 8*min(complexity, 5) + maturity - 5 if len > 1500
//	innovation  = 25 + 10*min(innovation, 4) + 3*min(tags, 5) + 5 if len >= 200
const (
	viabilityBase        = 35
	viabilityLengthDiv   = 20
	viabilityLengthCap   = 20
	viabilityPerTag      = 5
	viabilityPerMarket   = 5
	viabilityMarketCap   = 3
	creativityBase       = 30
	creativityPerInnov   = 8
	creativityPerTag     = 4
	creativityLengthDiv  = 25
	creativityLengthCap  = 15
	creativityPerSentenc = 2
	creativitySentCap    = 5
	feasibilityBase      = 85
	feasibilityPerCompl  = 8
	feasibilityComplCap  = 5
	feasibilityLongDesc  = 1500
	feasibilityLongPen   = 5
	innovationBase       = 25
	innovationPerInnov   = 10
	innovationPerTag     = 3
	innovationDetailLen  = 200
	innovationDetailBon  = 5

	tagCap        = 5
	innovationCap = 4
)

// phaseMaturity rewards ideas further along the lifecycle
var phaseMaturity = map[ideas.Phase]int{
	ideas.PhaseInception:      0,
	ideas.PhaseRefinement:     5,
	ideas.PhasePlanning:       10,
	ideas.PhaseExecutionReady: 15,
}

// riskBands map mean(viability, feasibility) to a risk level, first match wins
var riskBands = []struct {
	min   int
	level ideas.Level
}{
	{70, ideas.LevelLow},
	{45, ideas.LevelMedium},
	{0, ideas.LevelHigh},
}

// effortBand is the feasibility-driven delivery estimate
type effortBand struct {
	minFeasibility int
	complexity     string
	duration       string
	resources      string
}

var effortBands = []effortBand{
	{75, "Low", "1-3 months", "Solo founder or a small team (1-2 people)"},
	{55, "Moderate", "3-6 months", "Small team (2-4 people) with product and engineering skills"},
	{35, "High", "6-12 months", "Cross-functional team (4-8 people) including domain specialists"},
	{0, "Very High", "12+ months", "Dedicated team (8+ people) with specialist expertise and significant funding"},
}

// Keyword sets matched as whole words or phrases against title, description and tags.
var (
	innovationKeywords = []string{
		"ai", "artificial intelligence", "machine learning", "innovative", "innovation",
		"unique", "novel", "first", "revolutionary", "disruptive", "breakthrough",
		"automated", "automation", "smart", "personalized",
	}
	marketKeywords = []string{
		"market", "customer", "customers", "user", "users", "revenue", "business",
		"demand", "subscription", "monetize", "pricing", "audience", "growth", "b2b", "b2c",
	}
	complexityKeywords = []string{
		"ai", "machine learning", "blockchain", "real time", "realtime", "distributed",
		"hardware", "iot", "platform", "integration", "integrations", "marketplace",
		"compliance", "vr", "robotics", "scale",
	}
)

// categoryRules are checked in order; the first with a keyword hit wins
var categoryRules = []struct {
	category string
	keywords []string
}{
	{"ai", []string{"ai", "artificial intelligence", "machine learning", "llm", "gpt", "chatbot"}},
	{"marketplace", []string{"marketplace", "buyers", "sellers", "gig", "rental", "booking"}},
	{"health", []string{"health", "medical", "fitness", "wellness", "patient", "clinic"}},
	{"education", []string{"education", "students", "course", "courses", "teaching", "tutor", "school"}},
	{"fintech", []string{"finance", "payment", "payments", "banking", "invest", "investing", "budget", "crypto"}},
	{"saas", []string{"saas", "software", "dashboard", "workflow", "productivity", "team", "teams"}},
}

const categoryGeneral = "general"

var similarConceptPool = map[string][]ideas.SimilarConcept{
	"ai": {
		{Name: "Jasper", Relevance: 78, Strengths: []string{"Strong brand in AI writing", "Template library"}, Limitations: []string{"Generic outputs", "High price point"}},
		{Name: "Notion AI", Relevance: 70, Strengths: []string{"Embedded in existing workflow", "Large user base"}, Limitations: []string{"Shallow domain depth"}},
		{Name: "Copy.ai", Relevance: 64, Strengths: []string{"Fast onboarding"}, Limitations: []string{"Crowded positioning", "Limited customization"}},
	},
	"marketplace": {
		{Name: "Etsy", Relevance: 72, Strengths: []string{"Trusted two-sided network", "Niche focus"}, Limitations: []string{"Seller fees", "Discovery is saturated"}},
		{Name: "Fiverr", Relevance: 68, Strengths: []string{"Clear productized offers"}, Limitations: []string{"Race to the bottom on price"}},
		{Name: "Airbnb", Relevance: 60, Strengths: []string{"Reviews build trust"}, Limitations: []string{"Heavy regulatory exposure"}},
	},
	"health": {
		{Name: "MyFitnessPal", Relevance: 74, Strengths: []string{"Large food database", "Habit loops"}, Limitations: []string{"Manual logging fatigue"}},
		{Name: "Headspace", Relevance: 66, Strengths: []string{"Strong content brand"}, Limitations: []string{"Subscription churn"}},
		{Name: "Teladoc", Relevance: 58, Strengths: []string{"Clinical network"}, Limitations: []string{"Compliance overhead", "Slow sales cycles"}},
	},
	"education": {
		{Name: "Duolingo", Relevance: 76, Strengths: []string{"Gamified retention", "Freemium funnel"}, Limitations: []string{"Shallow mastery"}},
		{Name: "Coursera", Relevance: 68, Strengths: []string{"Accredited partners"}, Limitations: []string{"Low completion rates"}},
		{Name: "Khan Academy", Relevance: 62, Strengths: []string{"Free, trusted content"}, Limitations: []string{"Donation dependent"}},
	},
	"fintech": {
		{Name: "YNAB", Relevance: 74, Strengths: []string{"Loyal community", "Clear methodology"}, Limitations: []string{"Steep learning curve"}},
		{Name: "Revolut", Relevance: 66, Strengths: []string{"Broad feature set"}, Limitations: []string{"Licensing per market"}},
		{Name: "Stripe", Relevance: 58, Strengths: []string{"Developer experience"}, Limitations: []string{"Not consumer facing"}},
	},
	"saas": {
		{Name: "Trello", Relevance: 72, Strengths: []string{"Simple mental model", "Free tier"}, Limitations: []string{"Limited reporting"}},
		{Name: "Asana", Relevance: 67, Strengths: []string{"Workflow depth"}, Limitations: []string{"Complex for small teams"}},
		{Name: "Airtable", Relevance: 61, Strengths: []string{"Flexible data model"}, Limitations: []string{"Pricing jumps at scale"}},
	},
	categoryGeneral: {
		{Name: "Product Hunt launches", Relevance: 55, Strengths: []string{"Early adopter feedback"}, Limitations: []string{"Short-lived attention"}},
		{Name: "Indie maker tools", Relevance: 50, Strengths: []string{"Low cost to start"}, Limitations: []string{"Fragmented market"}},
		{Name: "Community forums", Relevance: 45, Strengths: []string{"Direct user contact"}, Limitations: []string{"Hard to monetize"}},
	},
}

var improvementPool = map[ideas.Phase][]ideas.Suggestion{
	ideas.PhaseInception: {
		{Title: "Define the problem statement", Description: "Describe who has the problem, how often it occurs and what they use today.", Impact: ideas.LevelHigh, Effort: ideas.LevelLow},
		{Title: "Talk to potential users", Description: "Run five short interviews to confirm the pain is real before designing a solution.", Impact: ideas.LevelHigh, Effort: ideas.LevelMedium},
		{Title: "Map the alternatives", Description: "List existing products and workarounds and note where each falls short.", Impact: ideas.LevelMedium, Effort: ideas.LevelLow},
	},
	ideas.PhaseRefinement: {
		{Title: "Narrow the first audience", Description: "Pick one segment to serve first and tailor the value proposition to it.", Impact: ideas.LevelHigh, Effort: ideas.LevelLow},
		{Title: "Prototype the core flow", Description: "Build a clickable prototype of the single most important user journey.", Impact: ideas.LevelHigh, Effort: ideas.LevelMedium},
		{Title: "Write down key assumptions", Description: "Rank assumptions by risk and design a cheap test for the top three.", Impact: ideas.LevelMedium, Effort: ideas.LevelLow},
	},
	ideas.PhasePlanning: {
		{Title: "Scope an MVP", Description: "Cut the feature list to what is needed to deliver the core value once.", Impact: ideas.LevelHigh, Effort: ideas.LevelMedium},
		{Title: "Estimate costs and runway", Description: "Model build and operating costs for the first six months.", Impact: ideas.LevelMedium, Effort: ideas.LevelMedium},
		{Title: "Define success metrics", Description: "Agree on two or three measurable outcomes that decide whether to continue.", Impact: ideas.LevelMedium, Effort: ideas.LevelLow},
	},
	ideas.PhaseExecutionReady: {
		{Title: "Plan the launch channel", Description: "Choose one acquisition channel and prepare the launch assets for it.", Impact: ideas.LevelHigh, Effort: ideas.LevelMedium},
		{Title: "Set up feedback loops", Description: "Instrument the product and schedule regular user check-ins after launch.", Impact: ideas.LevelMedium, Effort: ideas.LevelLow},
		{Title: "Prepare for scale risks", Description: "Identify the first operational bottleneck and how you will handle it.", Impact: ideas.LevelMedium, Effort: ideas.LevelHigh},
	},
	"": {
		{Title: "Clarify the next milestone", Description: "State the single outcome that would move this idea to its next stage.", Impact: ideas.LevelMedium, Effort: ideas.LevelLow},
		{Title: "Gather early feedback", Description: "Share the idea with a few people in the target audience and record objections.", Impact: ideas.LevelHigh, Effort: ideas.LevelLow},
		{Title: "Assess competitors", Description: "Compare the idea with two or three alternatives and note its edge.", Impact: ideas.LevelMedium, Effort: ideas.LevelMedium},
	},
}

// shortDescription triggers the extra "expand the description" suggestion
const shortDescription = 120

var expandDescription = ideas.Suggestion{
	Title:       "Expand the description",
	Description: "Add the target user, the problem and how the idea solves it; richer descriptions produce better analyses.",
	Impact:      ideas.LevelMedium,
	Effort:      ideas.LevelLow,
}

// phaseFocus completes the phase recommendation template
var phaseFocus = map[ideas.Phase]string{
	ideas.PhaseInception:      "validating that the problem is worth solving",
	ideas.PhaseRefinement:     "sharpening the value proposition for one audience",
	ideas.PhasePlanning:       "scoping the smallest release that proves the idea",
	ideas.PhaseExecutionReady: "shipping quickly and measuring real usage",
}

const genericFocus = "defining the next concrete milestone"
