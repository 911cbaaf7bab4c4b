// Package formset keeps dynamically sized Django-style formsets consistent on
// a live page.
//
// A formset list is a container element carrying a list identifier, a set of
// item elements and one hidden counter field (<listId>-TOTAL_FORMS) the
// server reads on submission. The Engine observes the container's child list
// and, after every batch of structural changes, recounts the items from the
// DOM, writes the counter, renumbers the <listId>-<index>- field names to the
// items' current positions and attaches item behavior to new items.
//
// Append (Instantiator), close (Controller) and remove-last (Adapters) only
// mutate the DOM. The Engine is the single writer of the counter field.
package formset
