// Package bridge translates validated add-device requests into
// remote-control commands. The dispatcher owns request validation, browser
// URI resolution, and error tagging; transport details stay in the live
// client.
package bridge
