package main

import (
	"github.com/yu-ki/portfolio/internal/nav"
	"github.com/yu-ki/portfolio/internal/web"
)

var (
	Title = "Yu-ki | Furry Events"

	HeroLines = []string{"Hi there", "I'm Yu-ki =:)"}

	AboutMe = `沖縄生まれのケモノ好き。イベントに参加するのが大好きで、
	いつか全国のファーリーイベントを巡るのが目標です。
	マスコットのびっつと一緒に、参加したイベントと行ってみたいイベントをまとめました。`

	SectionTitles = map[string]string{
		"about":  "About Me",
		"events": "Furry Events",
	}

	// Approximate offsets for clients that do not report their own.
	Sections = []nav.Section{
		{ID: "home", Top: 0},
		{ID: "about", Top: 900},
		{ID: "events", Top: 1600},
	}

	Links = []nav.Link{
		{Label: "Home", Href: "#home"},
		{Label: "About", Href: "#about"},
		{Label: "Events", Href: "#events"},
	}
)

func pageContent() web.Content {
	return web.Content{
		Title:         Title,
		HeroLines:     HeroLines,
		AboutMe:       AboutMe,
		SectionTitles: SectionTitles,
		Sections:      Sections,
		Links:         Links,
	}
}
