/*
Package group implements composite-resource (group) orchestration:
implicit intra-group colocations and orderings, group pseudo-actions as
ordering points, and member assignment.

A group is an ordered sequence of member resource ids stored on the
group's types.Resource.Children. By default members run on the same
node (colocated) and start/stop in configured order (ordered); both
behaviors are driven entirely by the implicit constraints this package
generates, not by any special-cased member scheduling logic elsewhere.
*/
package group
