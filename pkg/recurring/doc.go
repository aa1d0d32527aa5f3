/*
Package recurring plans recurring monitor operations and their
cancellations for each resource

A resource's operation templates that carry interval > 0 are recurring
candidates; start/stop/promote/demote/reload-agent/migrate-to/
migrate-from are never recurring regardless of any configured interval.
For each surviving template, the resource's configured role filter
decides whether a monitor is scheduled on the active node, every inactive
node, or cancelled outright, per the table this package implements.
*/
package recurring
