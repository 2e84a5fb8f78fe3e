// Package waifuvault_sdk bootstraps a vault client from the environment.
// WAIFUVAULT_RUNTIME_MODE selects the backend: "http" talks to the vault named
// by WAIFUVAULT_API_URL, "mock" uses the in-memory vault (optionally seeded
// from the JSON file named by WAIFUVAULT_MOCK_SEED) and "auto", the default,
// picks http when a URL is configured and mock otherwise. Both backends expose
// the same vault.Client API.
package waifuvault_sdk
