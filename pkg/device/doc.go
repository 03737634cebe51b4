// Package device provides an authenticated client for the external
// connection API of a simulation service.
//
// # Overview
//
// A Client is bound to one device of one simulation. New logs in with a
// username and password, keeps the returned token, and computes the URL
// prefix every device endpoint shares:
//
//	{domain}/external-connection/api/{simulation_id}/{device_id}/
//
// Post appends an endpoint suffix to that prefix verbatim and sends an
// authenticated request.
//
// Getting a client
//
//	ctx := context.Background()
//	cli, err := device.New(ctx, &device.Config{
//	  Domain:       "https://sim.example.com",
//	  SimulationID: "sim1",
//	  DeviceID:     "dev1",
//	  Username:     "user",
//	  Password:     "secret",
//	})
//	if err != nil { return err }
//
//	res, err := cli.Post(ctx, "register")
//	if err != nil { return err }
//	_ = device.Report(os.Stdout, res)
//
// # Errors
//
// Every failure is returned as a *Error carrying an ErrorKind, so callers
// can tell transport failures from malformed login responses. A non-200
// status from a device endpoint is not an error; inspect Result instead.
package device
