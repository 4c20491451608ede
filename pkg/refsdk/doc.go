// Package refsdk is a Go client for the referral dashboard API.
//
// Signing in is a two-step handshake: Begin posts the shared key and returns
// an authorization code, which a human approves or rejects out of band.
// WaitForApproval then polls the status endpoint until the code resolves.
//
//	c := refsdk.NewClient("https://ref.toshilabs.io")
//	code, err := c.Begin(ctx, key, "")
//	if err != nil {
//		return err
//	}
//	sess, err := c.WaitForApproval(ctx, code)
//	if err != nil {
//		return err // ErrRejected, ErrExpired or a transport error
//	}
//	dash, err := sess.Dashboard(ctx)
//
// The session token is handed out exactly once. Persist it with Token and
// restore it with NewSession.
package refsdk
