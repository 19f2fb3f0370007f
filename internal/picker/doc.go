// Package picker decides which export files a run loads.
//
// Sources are tried in order: positional arguments, the inputs listed in
// teachload.yaml, and finally an interactive multi-select over the files of
// a directory when a terminal is attached. The first source that yields
// anything wins. An empty result is not an error; callers map it to
// teachload.ErrNoInputSelected.
package picker
