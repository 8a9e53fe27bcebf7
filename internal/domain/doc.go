// Package domain holds the BuddyPress records read by the exporters.
package domain
