package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/boss-solver/internal/models"
	"github.com/napolitain/boss-solver/internal/solver/battle"
)

func printHeader(w io.Writer, title string) {
	titleColor := color.New(color.FgCyan, color.Bold)
	width := len(title) + 4
	titleColor.Fprintf(w, "\n╭%s╮\n", strings.Repeat("─", width))
	titleColor.Fprintf(w, "│  %s  │\n", title)
	titleColor.Fprintf(w, "╰%s╯\n\n", strings.Repeat("─", width))
}

func printEncounter(w io.Writer, enc *models.Encounter) {
	infoColor := color.New(color.FgYellow)

	if enc.Name != "" {
		infoColor.Fprintf(w, "📄 Encounter: %s\n", enc.Name)
	}
	infoColor.Fprintf(w, "👹 Enemies: %s (total %d HP)\n\n", formatCodes(enc.EnemyHP), enc.TotalHP())

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Skill", "Damage", "Cooldown"}),
	)
	for _, a := range enc.Abilities {
		_ = table.Append([]string{
			fmt.Sprintf("%d", a.ID),
			fmt.Sprintf("%d", a.Damage),
			fmt.Sprintf("%d", a.Cooldown),
		})
	}
	_ = table.Render()
	fmt.Fprintln(w)
}

// printTurnLog writes one "Turn N: <action>" line per planned action
func printTurnLog(w io.Writer, seq []models.Action) {
	for _, line := range turnLog(seq) {
		fmt.Fprintln(w, line)
	}
}

func turnLog(seq []models.Action) []string {
	lines := make([]string, len(seq))
	for i, a := range seq {
		lines[i] = fmt.Sprintf("Turn %d: %s", i+1, a)
	}
	return lines
}

// printTimeline renders the replayed states: the action taken, the enemy
// under attack, every enemy's HP and the cooldowns after each turn
func printTimeline(w io.Writer, enc *models.Encounter, seq []models.Action, states []battle.State) {
	header := []string{"Turn", "Action", "Target"}
	for i := range enc.EnemyHP {
		header = append(header, fmt.Sprintf("Enemy %d", i+1))
	}
	header = append(header, "Cooldowns")

	table := tablewriter.NewTable(w, tablewriter.WithHeader(header))
	for i, s := range states {
		action, target := "start", "defeated"
		if i > 0 {
			action = seq[i-1].String()
		}
		if !s.Terminal() {
			target = fmt.Sprintf("Enemy %d", s.Target()+1)
		}
		row := []string{fmt.Sprintf("%d", s.Turns()), action, target}
		for e := 0; e < s.Enemies(); e++ {
			row = append(row, fmt.Sprintf("%d", s.HP(e)))
		}
		row = append(row, formatCodes(s.Cooldowns()))
		_ = table.Append(row)
	}
	_ = table.Render()
}
