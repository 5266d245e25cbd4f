// Package store manages named templates on disk.
//
// Templates are files with the ".tpl" extension. A name resolves, in order,
// to a local file with that path, to <dir>/<name>.tpl in each directory of
// the RUNTPL_PATH search path, and finally to the global template directory
// <UserConfigDir>/runtpl/templates. Only the global directory is written by
// [Store.Create] and [Store.Remove].
package store
