package cli

import (
	"fmt"
)

// CompletionCmd generates shell completions
type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)"`
}

const bashCompletion = `# nifimon bash completion script
# Add to ~/.bashrc:
#   eval "$(nifimon completion bash)"

_nifimon_completions() {
    local cur prev words cword
    _init_completion || return

    local commands="walk report config doctor version completion"
    local global_flags="-f --format -q --quiet -v --verbose"

    case "${prev}" in
        nifimon)
            COMPREPLY=($(compgen -W "${commands}" -- "${cur}"))
            return
            ;;
        -f|--format)
            COMPREPLY=($(compgen -W "ndjson text" -- "${cur}"))
            return
            ;;
        --log-file)
            _filedir
            return
            ;;
        config)
            COMPREPLY=($(compgen -W "show path generate" -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            return
            ;;
    esac

    case "${words[1]}" in
        walk)
            COMPREPLY=($(compgen -W "--base-url -u --username -p --password --api-path -d --max-depth --root --log-file --interval --passes --retries --retry-delay --timeout ${global_flags}" -- "${cur}"))
            ;;
        report)
            COMPREPLY=($(compgen -f -W "--errors-only ${global_flags}" -- "${cur}"))
            ;;
        doctor)
            COMPREPLY=($(compgen -W "--timeout ${global_flags}" -- "${cur}"))
            ;;
        *)
            COMPREPLY=($(compgen -W "${commands} ${global_flags}" -- "${cur}"))
            ;;
    esac
}

complete -F _nifimon_completions nifimon
`

const zshCompletion = `#compdef nifimon
# nifimon zsh completion script
# Add to ~/.zshrc:
#   eval "$(nifimon completion zsh)"

_nifimon() {
    local -a commands
    commands=(
        'walk:Walk the process group tree and log one record per group'
        'report:Summarize a monitor log file'
        'config:Show or manage configuration'
        'doctor:Check configuration, log file and API access'
        'version:Show version information'
        'completion:Generate shell completions'
    )

    local -a global_opts
    global_opts=(
        '(-f --format)'{-f,--format}'[Output format]:format:(ndjson text)'
        '(-q --quiet)'{-q,--quiet}'[Suppress stdout summaries]'
        '(-v --verbose)'{-v,--verbose}'[Show debug output]'
    )

    _arguments -C \
        $global_opts \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                walk)
                    _arguments \
                        '--base-url[NiFi REST API base URL]:url:' \
                        '(-u --username)'{-u,--username}'[Username for basic auth]:username:' \
                        '(-p --password)'{-p,--password}'[Password for basic auth]:password:' \
                        '--api-path[Process group endpoint]:path:' \
                        '(-d --max-depth)'{-d,--max-depth}'[Levels to descend below the root]:depth:' \
                        '--root[Process group id to start from]:id:' \
                        '--log-file[Monitor log file]:file:_files' \
                        '--interval[Repeat interval]:duration:' \
                        '--passes[Stop after this many walks]:count:' \
                        '--retries[Extra attempts for failed requests]:count:' \
                        '--retry-delay[Delay between retries]:duration:' \
                        '--timeout[Per-request timeout]:duration:' \
                        $global_opts
                    ;;
                report)
                    _arguments \
                        '--errors-only[Only groups with ERROR bulletins]' \
                        '1:log file:_files' \
                        $global_opts
                    ;;
                config)
                    _arguments '1:action:(show path generate)'
                    ;;
                completion)
                    _arguments '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

compdef _nifimon nifimon
`

const fishCompletion = `# nifimon fish completion script
# Add to ~/.config/fish/completions/nifimon.fish

complete -c nifimon -f

# Commands
complete -c nifimon -n "__fish_use_subcommand" -a "walk" -d "Walk the process group tree"
complete -c nifimon -n "__fish_use_subcommand" -a "report" -d "Summarize a monitor log file"
complete -c nifimon -n "__fish_use_subcommand" -a "config" -d "Show or manage configuration"
complete -c nifimon -n "__fish_use_subcommand" -a "doctor" -d "Check configuration, log file and API access"
complete -c nifimon -n "__fish_use_subcommand" -a "version" -d "Show version information"
complete -c nifimon -n "__fish_use_subcommand" -a "completion" -d "Generate shell completions"

# Global flags
complete -c nifimon -s f -l format -d "Output format" -xa "ndjson text"
complete -c nifimon -s q -l quiet -d "Suppress stdout summaries"
complete -c nifimon -s v -l verbose -d "Show debug output"

# Walk command
complete -c nifimon -n "__fish_seen_subcommand_from walk" -l base-url -d "NiFi REST API base URL" -r
complete -c nifimon -n "__fish_seen_subcommand_from walk" -s u -l username -d "Username for basic auth" -r
complete -c nifimon -n "__fish_seen_subcommand_from walk" -s p -l password -d "Password for basic auth" -r
complete -c nifimon -n "__fish_seen_subcommand_from walk" -l api-path -d "Process group endpoint" -r
complete -c nifimon -n "__fish_seen_subcommand_from walk" -s d -l max-depth -d "Levels to descend below the root" -r
complete -c nifimon -n "__fish_seen_subcommand_from walk" -l root -d "Process group id to start from" -r
complete -c nifimon -n "__fish_seen_subcommand_from walk" -l log-file -d "Monitor log file" -rF
complete -c nifimon -n "__fish_seen_subcommand_from walk" -l interval -d "Repeat interval" -r
complete -c nifimon -n "__fish_seen_subcommand_from walk" -l passes -d "Stop after this many walks" -r
complete -c nifimon -n "__fish_seen_subcommand_from walk" -l retries -d "Extra attempts for failed requests" -r
complete -c nifimon -n "__fish_seen_subcommand_from walk" -l retry-delay -d "Delay between retries" -r
complete -c nifimon -n "__fish_seen_subcommand_from walk" -l timeout -d "Per-request timeout" -r

# Report command
complete -c nifimon -n "__fish_seen_subcommand_from report" -l errors-only -d "Only groups with ERROR bulletins"
complete -c nifimon -n "__fish_seen_subcommand_from report" -F

# Config and completion
complete -c nifimon -n "__fish_seen_subcommand_from config" -a "show path generate"
complete -c nifimon -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`

// Run executes the completion command
func (c *CompletionCmd) Run(globals *Globals) error {
	var script string
	switch c.Shell {
	case "bash":
		script = bashCompletion
	case "zsh":
		script = zshCompletion
	case "fish":
		script = fishCompletion
	default:
		return fmt.Errorf("unsupported shell: %s", c.Shell)
	}
	_, err := fmt.Fprint(globals.Stdout, script)
	return err
}
