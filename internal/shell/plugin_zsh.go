package shell

// ZshPlugin is the zsh plugin source. preexec tees the command's output to a
// temp file; precmd restores the streams and hands the file to cco capture.
const ZshPlugin = `# cco shell plugin - auto-generated, do not edit manually
# Source this file from your ~/.zshrc:
#   source ~/.config/cco/cco.plugin.zsh

typeset -g _cco_cmd="" _cco_out=""
typeset -gi _cco_fd1=-1 _cco_fd2=-1
typeset -g _cco_self_re='` + selfCommandPattern + `'

_cco_preexec() {
  _cco_cmd="$1"
  [[ "$_cco_cmd" =~ $_cco_self_re ]] && return
  # Only tee when attached to a terminal; pipelines into cco stay untouched.
  [[ -t 1 ]] || return
  _cco_out="$(mktemp "${TMPDIR:-/tmp}/cco.XXXXXX")" || { _cco_out=""; return; }
  exec {_cco_fd1}>&1 {_cco_fd2}>&2
  exec > >(tee -- "$_cco_out") 2>&1
}

_cco_precmd() {
  [[ -n "$_cco_out" ]] || return
  exec 1>&$_cco_fd1 2>&$_cco_fd2
  exec {_cco_fd1}>&- {_cco_fd2}>&-
  # tee exits asynchronously once its input closes.
  sleep 0.05
  # stdout off the terminal so capture never probes it; stderr stays there
  # for errors and for telling which tty this is.
  command cco capture -- "$_cco_cmd" < "$_cco_out" >/dev/null
  command rm -f -- "$_cco_out"
  _cco_out=""
}

autoload -Uz add-zsh-hook
add-zsh-hook preexec _cco_preexec
add-zsh-hook precmd _cco_precmd
`
