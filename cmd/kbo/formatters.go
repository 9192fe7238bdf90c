package main

import (
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pevans/kboarchive/clip"
	"github.com/pevans/kboarchive/discovery"
	"github.com/pevans/kboarchive/history"
	"github.com/pevans/kboarchive/pipeline"
)

// printRunSummary prints the outcome of a crawl
func printRunSummary(record *history.Run, run *discovery.Run) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	if record.ID != uuid.Nil {
		t.SetTitle("Run " + record.ID.String())
	}
	t.AppendHeader(table.Row{"Pages", "Discovered", "Accepted", "Rejected", "Failed"})
	t.AppendRow(table.Row{run.PagesFetched, run.Discovered, run.Accepted, run.Rejected, run.Failed})
	t.Render()

	if len(run.Rejections) == 0 {
		return
	}

	stages := make([]pipeline.Stage, 0, len(run.Rejections))
	for stage := range run.Rejections {
		stages = append(stages, stage)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })

	r := table.NewWriter()
	r.SetOutputMirror(os.Stdout)
	r.SetStyle(table.StyleLight)
	r.AppendHeader(table.Row{"Rejected at", "Clips"})
	for _, stage := range stages {
		r.AppendRow(table.Row{string(stage), run.Rejections[stage]})
	}
	r.Render()
}

// printHistoryTable prints recorded runs, newest first
func printHistoryTable(runs []history.Run) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Started", "Type", "Team", "Dates", "Dry", "Pages", "Accepted", "Rejected", "Failed", "Status"})

	for _, run := range runs {
		team := run.TeamName
		if team == "" {
			team = "any"
		}

		status := "running"
		switch {
		case run.Error != nil:
			status = truncate("error: "+*run.Error, 40)
		case run.FinishedAt != nil:
			status = "ok"
		}

		t.AppendRow(table.Row{
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.ClipType,
			team,
			fmt.Sprintf("%s - %s", clip.NewDate(run.StartDate), clip.NewDate(run.EndDate)),
			run.DryRun,
			run.PagesFetched,
			run.Accepted,
			run.Rejected,
			run.Failed,
			status,
		})
	}

	t.Render()
}

// printTeamsTable prints the known teams and their channels
func printTeamsTable() {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Team", "Title code", "Channel"})
	for _, team := range clip.Teams {
		t.AppendRow(table.Row{team.Name, team.ShortName, team.Channel})
	}
	t.AppendFooter(table.Row{clip.LeagueName, "", clip.LeagueChannel})
	t.Render()
}

// truncate shortens s to at most limit runes, marking the cut with "..."
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return text.Trim(s, limit-3) + "..."
}
