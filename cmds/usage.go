package cmds

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	printCommands(p.commands, "")
}

func printCommands(commands map[string]*Command, indent string) {
	names := slices.Sorted(maps.Keys(commands))
	printed := make(map[*Command]bool)
	for _, name := range names {
		command := commands[name]
		if command == nil || printed[command] {
			continue
		}
		printed[command] = true
		label := name
		if len(command.Aliases) > 0 {
			label += " " + strings.Join(command.Aliases, " ")
		}
		fmt.Fprintf(os.Stdout, "%s%s", indent, label)
		if command.Description != "" {
			fmt.Fprintf(os.Stdout, "\t%s", command.Description)
		}
		fmt.Fprintln(os.Stdout)
		if len(command.Subs) > 0 {
			printCommands(command.Subs, indent+"  ")
		}
	}
}
