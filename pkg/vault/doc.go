// Package vault is a client for the waifuvault file-hosting REST API.
//
// Files are uploaded from memory, disk or a remote URL and addressed by the
// token the vault returns. Buckets group the files of one network origin and
// albums are named, shareable subsets of a bucket.
//
// Every call performs a single request (GetFile by token performs two) and
// never retries. Non-2xx responses are returned as *HTTPError; its message is
// "Error <status> (<name>): <message>" when the vault sent a structured error
// and the raw body otherwise. Cancellation and deadlines come from the
// context passed to each method.
package vault
