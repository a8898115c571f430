// Package clipboard defines the copy/cut/paste interchange port and its
// backends. The editor is handed a [Port] and never cares whether the bundle
// lives in process memory or in shared storage.
package clipboard
