// Command static-gallery turns directories of photographs into a static web
// gallery.
//
// Usage:
//
//	static-gallery generate -c "photos/trip;photos/sky;Trip" -o out -p templates/hauer
//	static-gallery generate -u -c "photos/more;-;Trip" -o out
//	static-gallery inspect -o out
//	static-gallery config init gallery.toml
//
// Exit statuses: 0 success, 1 runtime failure, 2 invalid configuration,
// 3 unreadable gallery page, 4 invalid gallery manifest, 130 interrupted.
package main
