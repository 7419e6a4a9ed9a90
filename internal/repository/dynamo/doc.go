// Package dynamo stores per-user key/value rows (conversation snapshots and
// mode preferences) in a single DynamoDB table keyed by PK/SK.
//
// Items live under PK "USER#<id>" with SK "SNAPSHOT" or "PREFERENCE".
package dynamo
