package main

import "github.com/phaisonvs/portfolio-phaison-sub001/internal/store"

var (
	Headline = `Frontend-minded developer building fast, accessible web experiences.`

	AboutMe = `I build interfaces that feel simple and behave predictably, and I care about
	what happens underneath them just as much. Most of my projects start as a small idea
	and become a reason to learn a new tool, a new language, or a better way to structure
	state. Outside of work I'm usually sketching UI ideas, reading about design systems,
	or out on a long bike ride.`
)

// seedProjects fills an empty database so the carousel has something to show.
var seedProjects = []store.Project{
	{
		Title:       "Design System Playground",
		Description: "A component library with live theming, token export and accessibility checks baked into every story.",
		ImageURL:    "/images/design-system.png",
		Link:        "https://github.com/phaisonvs",
		Tags:        []string{"React", "TypeScript", "Storybook"},
	},
	{
		Title:       "Realtime Dashboard",
		Description: "Operational dashboard streaming metrics over websockets with charts that stay smooth under load.",
		ImageURL:    "/images/dashboard.png",
		Link:        "https://github.com/phaisonvs",
		Tags:        []string{"Go", "WebSocket", "Charts"},
	},
	{
		Title:       "Landing Page Builder",
		Description: "Drag-and-drop page sections backed by a hosted database, with instant preview and publish.",
		ImageURL:    "/images/builder.png",
		Tags:        []string{"Next.js", "Tailwind", "Postgres"},
	},
	{
		Title:       "Terminal Music Player",
		Description: "A keyboard-driven music player for the terminal with a fuzzy finder and queue management.",
		ImageURL:    "/images/music.png",
		Link:        "https://github.com/phaisonvs",
		Tags:        []string{"Go", "TUI"},
	},
	{
		Title:       "Recipe Recommender",
		Description: "Content-based recommendations using TF-IDF and cosine similarity with interactive filters.",
		ImageURL:    "/images/recipes.png",
		Tags:        []string{"Python", "ML"},
	},
	{
		Title:       "Portfolio Site",
		Description: "This site: Go, Gin and HTMX, with one carousel state machine behind every renderer.",
		ImageURL:    "/images/portfolio.png",
		Link:        "https://github.com/phaisonvs",
		Tags:        []string{"Go", "Gin", "HTMX"},
	},
}

// TimelineEntry is one block of the work or education sections.
type TimelineEntry struct {
	Title        string
	Organization string
	StartDate    string
	EndDate      string
	LogoPath     string
	BulletPoints []string
}

var WorkHistory = []TimelineEntry{
	{
		Title:        "Frontend Developer",
		Organization: "Freelance",
		StartDate:    "Jan 2023",
		EndDate:      "Present",
		LogoPath:     "/images/freelance.png",
		BulletPoints: []string{
			"Delivered marketing sites and dashboards for small businesses, from design handoff to deployment",
			"Replaced ad-hoc UI widgets with shared, tested components to cut regressions between releases",
		},
	},
}

var Education = []TimelineEntry{
	{
		Title:        "Systems Analysis and Development",
		Organization: "Technical College",
		StartDate:    "Feb 2021",
		EndDate:      "Dec 2023",
		LogoPath:     "/images/college.png",
		BulletPoints: []string{
			"Coursework: data structures, web development, databases",
		},
	},
}
