// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/apps"
	"github.com/clintmod/macprefs/internal/meta"
)

const bashCompletionScript = `# bash completion for macprefs
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_macprefs()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "backup restore list select diff verify readme push pull completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--backup-dir -b --user --color -c --dry-run -n --filter -f --output -o --sort -s --strict --titles -t"
    local modules="%s"
    local remote="--bucket --prefix --profile --region --endpoint"

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
        return 0
    fi
    if [[ "$prev" == "--backup-dir" || "$prev" == "-b" ]]; then
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
        return 0
    fi

    case "$cmd" in
        backup|diff)
            local opts="$common"
            [[ $cmd == diff ]] && opts="$opts --ignore"
            if [[ "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -W "$modules" -- "$cur") )
                return 0
            fi
            ;;
        restore)
            local opts="$common --interactive -i"
            if [[ "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -W "$modules" -- "$cur") )
                return 0
            fi
            ;;
        select)
            local opts="$common --marker -m --all -a"
            if [[ "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -o dirnames -- "$cur") )
                return 0
            fi
            ;;
        push|pull)
            local opts="$common $remote"
            ;;
        readme)
            local opts="$common --write"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _macprefs macprefs
`

const zshCompletionScript = `#compdef macprefs

_macprefs() {
  local -a cmds
  cmds=(
    'backup:back up settings'
    'restore:restore settings from a backup'
    'list:list modules and their backup status'
    'select:show the newest settings directory per product'
    'diff:compare backed up JSON settings with this machine'
    'verify:check the backup against its manifest'
    'readme:show the restore guide for the backup'
    'push:upload the backup to S3'
    'pull:download a backup from S3'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-b --backup-dir)'{-b,--backup-dir}'[backup directory]:dir:_directories'
  '--user[user that owns restored files]:user:_users'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-n --dry-run)'{-n,--dry-run}'[change nothing]'
  '(-f --filter)'{-f,--filter}'[filter rows]:filter'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '--strict[fail when any module fails]'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  local -a remote
  remote=(
  '--bucket[S3 bucket]:bucket'
  '--prefix[key prefix]:prefix'
  '--profile[AWS profile]:profile'
  '--region[AWS region]:region'
  '--endpoint[S3 compatible endpoint]:url'
  )

  local modules="%s"

  if (( CURRENT == 2 )); then
    _describe -t commands 'macprefs commands' cmds
    return
  fi

  case $words[2] in
    backup)
      _arguments -C $common "*:module:(${modules})"
      ;;
    restore)
      _arguments -C $common '(-i --interactive)'{-i,--interactive}'[pick modules]' "*:module:(${modules})"
      ;;
    diff)
      _arguments -C $common '--ignore[keys to ignore]:key' "*:module:(${modules})"
      ;;
    select)
      _arguments -C $common '*'{-m,--marker}'[marker sub-path]:marker' '(-a --all)'{-a,--all}'[show skipped]' '::dir:_directories'
      ;;
    push|pull)
      _arguments -C $common $remote
      ;;
    readme)
      _arguments -C $common '--write[write RESTORE.md]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _macprefs macprefs
`

// completionScript returns the script for shell with the module names
// filled in. ok is false for unknown shells.
func completionScript(shell string) (string, bool) {
	modules := strings.Join(apps.Names(apps.All()), " ")
	switch shell {
	case "bash":
		return fmt.Sprintf(bashCompletionScript, modules), true
	case "zsh":
		return fmt.Sprintf(zshCompletionScript, modules), true
	}
	return "", false
}

func completionCommandAction(_ context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	script, ok := completionScript(shell)
	if !ok {
		fmt.Fprintln(os.Stderr, "usage: macprefs completion [bash|zsh]")
		return nil
	}
	fmt.Fprint(writer(cmd), script)
	return nil
}

// moduleCompleter offers module names as positional arguments.
func moduleCompleter(_ context.Context, cmd *cli.Command) {
	for _, n := range apps.Names(apps.All()) {
		fmt.Fprintln(writer(cmd), n)
	}
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "macprefs completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
