package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `To load completions:

Bash:
  $ source <(painel completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ painel completion bash > /etc/bash_completion.d/painel
  # macOS:
  $ painel completion bash > $(brew --prefix)/etc/bash_completion.d/painel

Zsh:
  $ painel completion zsh > "${fpath[1]}/_painel"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ painel completion fish | source

  # To load completions for each session, execute once:
  $ painel completion fish > ~/.config/fish/completions/painel.fish

PowerShell:
  PS> painel completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
