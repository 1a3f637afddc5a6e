// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import "code.hybscloud.com/atomix"

// Serial is a monotonically increasing identifier.
// Pipes, handles and subscriptions each draw from their own counter.
type Serial = uint32

// SubscriptionID identifies one notification subscription.
type SubscriptionID = Serial

var (
	pipeCounter   atomix.Uint32
	handleCounter atomix.Uint32
	subCounter    atomix.Uint32
)

func nextPipeSerial() Serial { return pipeCounter.Add(1) }

func nextHandleSerial() Serial { return handleCounter.Add(1) }

func nextSubscriptionID() SubscriptionID { return subCounter.Add(1) }
