package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_fastmem() {
    local cur prev words cword
    _init_completion || return

    local commands="init set get rm clear lock unlock save load status ls diff keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        set|get|rm|clear|lock|unlock|save|load|status|ls|diff)
            if [[ $cword -eq 2 ]]; then
                _filedir -d
            fi
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}
complete -F _fastmem fastmem
`

const zshCompletion = `#compdef fastmem

_fastmem() {
    local -a commands
    commands=(
        'init:Create a new named storage'
        'set:Store a value under a key'
        'get:Print the value stored under a key'
        'rm:Delete a key'
        'clear:Remove all values'
        'lock:Block mutations'
        'unlock:Allow mutations'
        'save:Save the index to a named state'
        'load:Restore the index from a named state'
        'status:Show storage status'
        'ls:Alias for status'
        'diff:Compare saved states'
        'keyring:Manage the cached password'
        'completion:Generate shell completions'
        'help:Show help'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case "$words[2]" in
        set|get|rm|clear|lock|unlock|save|load|status|ls|diff)
            (( CURRENT == 3 )) && _directories
            ;;
        keyring)
            compadd save delete status
            ;;
        completion)
            compadd bash zsh fish
            ;;
    esac
}

_fastmem
`

const fishCompletion = `complete -c fastmem -f

complete -c fastmem -n '__fish_use_subcommand' -a init -d 'Create a new named storage'
complete -c fastmem -n '__fish_use_subcommand' -a set -d 'Store a value under a key'
complete -c fastmem -n '__fish_use_subcommand' -a get -d 'Print the value stored under a key'
complete -c fastmem -n '__fish_use_subcommand' -a rm -d 'Delete a key'
complete -c fastmem -n '__fish_use_subcommand' -a clear -d 'Remove all values'
complete -c fastmem -n '__fish_use_subcommand' -a lock -d 'Block mutations'
complete -c fastmem -n '__fish_use_subcommand' -a unlock -d 'Allow mutations'
complete -c fastmem -n '__fish_use_subcommand' -a save -d 'Save the index to a named state'
complete -c fastmem -n '__fish_use_subcommand' -a load -d 'Restore the index from a named state'
complete -c fastmem -n '__fish_use_subcommand' -a status -d 'Show storage status'
complete -c fastmem -n '__fish_use_subcommand' -a ls -d 'Alias for status'
complete -c fastmem -n '__fish_use_subcommand' -a diff -d 'Compare saved states'
complete -c fastmem -n '__fish_use_subcommand' -a keyring -d 'Manage the cached password'
complete -c fastmem -n '__fish_use_subcommand' -a completion -d 'Generate shell completions'

complete -c fastmem -n '__fish_seen_subcommand_from keyring' -a 'save delete status'
complete -c fastmem -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'
`
