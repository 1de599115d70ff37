package amatino

import (
	"context"
	"encoding/json"

	"github.com/s0up4200/amatino/api"
)

const transactionVersionPath = "/transactions/version/list"

// TransactionVersionList is the retained history of one transaction, each
// version a complete Transaction as it stood after a create or update.
type TransactionVersionList struct {
	EntityID      string
	TransactionID int64
	Versions      []Transaction
}

// Len returns the number of versions
func (l TransactionVersionList) Len() int {
	return len(l.Versions)
}

// Latest returns the most recently recorded version, if any.
func (l TransactionVersionList) Latest() (Transaction, bool) {
	var latest Transaction
	found := false
	for _, v := range l.Versions {
		if !found || v.VersionTime.After(latest.VersionTime) {
			latest, found = v, true
		}
	}
	return latest, found
}

// RetrieveTransactionVersions fetches every version of tx.
func (c *Client) RetrieveTransactionVersions(ctx context.Context, tx Transaction) (TransactionVersionList, error) {
	params := api.NewParameters(tx.EntityID, api.IntTarget(transactionKey, tx.ID))
	resp, err := c.call(ctx, api.MethodGet, transactionVersionPath, nil, params)
	if err != nil {
		return TransactionVersionList{}, err
	}
	if resp.Empty() {
		return TransactionVersionList{}, &api.UnexpectedResponseTypeError{Expected: "version list", Actual: "empty body"}
	}
	return firstOrObject(resp.Raw(), transactionVersionDecoder(tx.EntityID))
}

func transactionVersionDecoder(entityID string) api.DecodeFunc[TransactionVersionList] {
	return func(data json.RawMessage) (TransactionVersionList, error) {
		obj, err := api.AsObject(data)
		if err != nil {
			return TransactionVersionList{}, err
		}

		l := TransactionVersionList{EntityID: entityID}
		var versions json.RawMessage
		err = requireAll(obj,
			field{transactionKey, &l.TransactionID},
			field{"versions", &versions},
		)
		if err != nil {
			return TransactionVersionList{}, err
		}
		// a transaction with no recorded history sends null
		if l.Versions, err = api.DecodeOptionalMany(versions, transactionDecoder(entityID), true); err != nil {
			return TransactionVersionList{}, err
		}
		return l, nil
	}
}
