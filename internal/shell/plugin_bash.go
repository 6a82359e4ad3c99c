package shell

// selfCommandPattern matches command lines that run cco itself. Their
// streams are left on the terminal: the browser and the OSC 52 copy need it.
const selfCommandPattern = `^[[:space:]]*(command[[:space:]]+)?([^[:space:]]*/)?cco([[:space:]]|$)`

// BashPlugin is the bash plugin source. A DEBUG trap armed by PROMPT_COMMAND
// plays the role of zsh's preexec.
const BashPlugin = `# cco shell plugin - auto-generated, do not edit manually
# Source this file from your ~/.bashrc:
#   source ~/.config/cco/cco.plugin.bash

_cco_cmd=""
_cco_out=""
_cco_armed=""
_cco_self_re='` + selfCommandPattern + `'

_cco_preexec() {
  [[ -n "$_cco_armed" ]] || return
  _cco_armed=""
  [[ -n "$COMP_LINE" ]] && return
  _cco_cmd="$(HISTTIMEFORMAT= builtin history 1 | sed -e 's/^ *[0-9]* *//')"
  [[ "$_cco_cmd" =~ $_cco_self_re ]] && return
  [[ -t 1 ]] || return
  _cco_out="$(mktemp "${TMPDIR:-/tmp}/cco.XXXXXX")" || { _cco_out=""; return; }
  exec 8>&1 9>&2
  exec > >(tee -- "$_cco_out") 2>&1
}

_cco_precmd() {
  if [[ -n "$_cco_out" ]]; then
    exec 1>&8 2>&9 8>&- 9>&-
    sleep 0.05
    # stdout off the terminal so capture never probes it; stderr stays there
    # for errors and for telling which tty this is.
    command cco capture -- "$_cco_cmd" < "$_cco_out" >/dev/null
    command rm -f -- "$_cco_out"
    _cco_out=""
  fi
  _cco_armed=1
}

trap '_cco_preexec' DEBUG
# _cco_precmd must run last so earlier prompt commands do not trigger capture.
PROMPT_COMMAND="${PROMPT_COMMAND:+$PROMPT_COMMAND; }_cco_precmd"
`
