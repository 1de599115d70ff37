// Package amatino binds the Amatino double-entry accounting API to Go types.
//
// A Session is created once with an email or user id and secret, and every
// later call is signed with it:
//
//	requester, err := api.NewClient(logger)
//	if err != nil {
//		return err
//	}
//	session, err := amatino.CreateSession(ctx, requester, email, secret)
//	if err != nil {
//		return err
//	}
//	client := amatino.New(requester, session, logger)
//
//	entity, err := client.CreateEntity(ctx, "Mega Corp", "", nil)
//	cash, err := client.CreateAccount(ctx, entity.ID, amatino.AccountFields{
//		Name:         "Cash",
//		Type:         amatino.Asset,
//		Denomination: amatino.GlobalDenomination(5),
//	})
//
// Values returned by the client are never modified in place. Update methods
// return the new version and leave their argument untouched.
//
// Errors from the API keep their api package types, so api.IsNotFound and
// errors.As work on anything a Client method returns.
package amatino
