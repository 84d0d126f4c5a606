package cmd

import "github.com/spf13/pflag"

// addSelectorFlags registers the tunnel selection flags shared by start and
// stop. verb shows up in the --all help text.
func addSelectorFlags(fs *pflag.FlagSet, names *[]string, group *string, all *bool, verb string) {
	fs.StringSliceVarP(names, "name", "n", nil, "Tunnel name (repeatable)")
	fs.StringVarP(group, "group", "g", "", "Tunnel group name")
	fs.BoolVarP(all, "all", "a", false, verb+" all configured tunnels")
}
