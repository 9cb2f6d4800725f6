package sms

import (
	"context"
	"sort"

	"smsctl/internal/modem"
)

// DeleteResult summarizes a delete batch. Attempted is in the order the
// deletes were issued.
type DeleteResult struct {
	Attempted []int
	Deleted   []int
	Failed    []int
}

// Delete removes the messages selected by an index list such as "0,2-4".
//
// Indices refer to a single listing taken up front. Deletes are issued from
// the highest index down, so a device that renumbers after each delete never
// shifts an index that is still pending. The handles are not re-validated
// between the listing and each delete. A failed delete is reported and the
// batch carries on.
func (m *Manager) Delete(ctx context.Context, md *modem.Modem, selection string) *DeleteResult {
	res := &DeleteResult{}

	handles, err := m.Handles(ctx, md)
	if err != nil || len(handles) == 0 {
		m.println("No SMS messages on the modem to delete.")
		return res
	}

	indices, warnings := ParseIndexSpec(selection, len(handles)-1)
	for _, w := range warnings {
		m.printf("Warning: %s\n", w)
	}
	if len(indices) == 0 {
		m.println("No valid indices specified for deletion.")
		return res
	}

	sort.Sort(sort.Reverse(sort.IntSlice(indices)))

	m.printf("Preparing to delete %d message(s)...\n", len(indices))
	for _, index := range indices {
		handle := handles[index]
		res.Attempted = append(res.Attempted, index)
		m.printf("Deleting SMS at index %d (Path: %s)...\n", index, handle)

		if err := m.Provider.DeleteMessage(ctx, md.Path, handle); err != nil {
			m.Log.Debug().Err(err).Str("sms", handle).Msg("delete failed")
			m.printf("Failed to delete message at index %d.\n", index)
			res.Failed = append(res.Failed, index)
			continue
		}
		m.printf("Successfully deleted message at index %d.\n", index)
		res.Deleted = append(res.Deleted, index)
	}

	m.printf("\nDeletion complete. %d message(s) removed from the modem.\n", len(res.Deleted))
	return res
}
