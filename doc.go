// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

/*
Package phe contains the client side of Password-Hardened Encryption (PHE), a
protocol described in [1]. With the help of a crypto server that never learns
the password, a user's password is turned into a 32 byte secret key. An
attacker who steals the stored records can't run an offline dictionary attack
against them: every guess needs the crypto server.

The protocol has three parts. A user is enrolled by calling
Protocol.EnrollAccount, which returns a record to store and the user's key.
Protocol.VerifyPassword takes the password and the record and returns the same
key if the password is right. A wrong password is an expected outcome and
gives a VerifyResult with Success set to false, not an error. Finally the
crypto server can rotate its keys at any time and hand out an update token.
Tokens are applied to the Context, which keeps every key version, and to the
stored records with RecordUpdater. Neither step needs any password.

Every response from the server carries a zero-knowledge proof (ProofOfSuccess
or ProofOfFail) that it was computed with the server's key. A proof that
doesn't validate is reported as an error and no key is returned.

The messages sent to the server are defined in this package and serialized
with the protobuf wire format. The client package sends them over HTTP. Keys
and update tokens are passed around as strings of the form
"SK.<version>.<base64>", "PK.<version>.<base64>" and "UT.<version>.<base64>".

All computations are done on the NIST P-256 curve.

IMPORTANT NOTE: This code has been written for educational purposes only. No
experts in cryptography or IT security have reviewed it. Do not use it for
anything important.

[1] Lai, R. W. F., Egger, C., Reinert, M., Chow, S. S. M., Maffei, M., and
D. Schröder, "Simple Password-Hardened Encryption Services", USENIX Security,
2018. (Full version available at https://eprint.iacr.org/2018/148.pdf)
*/
package phe
