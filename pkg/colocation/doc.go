/*
Package colocation models affinity and anti-affinity between resources as
a scored constraint graph and propagates those scores into each
resource's allowed-node table. Every resource owns two sorted lists of
colocation ids: this_with (colocations where it is the dependent) and
with_this (colocations where it is the primary). Applying a colocation is
phase-sensitive: whether it affects node placement, role selection, or
nothing at all depends on whether the primary and dependent are already
assigned and whether role filters match. Score propagation recurses
through the graph with reentrancy guards (merging/updating_nodes) to
break cycles, attenuating the propagated score by score/Infinity at each
hop.
*/
package colocation
