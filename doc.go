// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pipe provides a bounded in-memory byte channel with named-pipe
// semantics: any number of readers and writers share one circular buffer
// through per-open handles.
//
// # Architecture
//
//   - Storage: a fixed-capacity ring of C bytes, one slot always kept free
//     so that equal cursors mean empty. At most C-1 bytes are buffered.
//   - Lifecycle: [Pipe.Open] allocates the ring on first use; the last
//     [Handle.Close] frees it. Allocation failure is [ErrOutOfMemory].
//   - Blocking I/O: [Handle.ReadContext] and [Handle.WriteContext] wait on
//     data-available and space-available conditions with the lock released.
//     Non-blocking handles return [code.hybscloud.com/iox.ErrWouldBlock].
//     Cancelled waits return [ErrInterrupted]. Transfers may be short.
//   - Readiness: [Handle.Poll] reports readable/writable and registers the
//     caller for the next change ([Readiness.Wait]).
//   - Notification: [Handle.Subscribe] fans a non-blocking [Event] out to
//     every [Target] after each write, such as a [Mailbox] backed by a
//     lock-free [code.hybscloud.com/lfq] queue.
//   - Effects: [Read], [Write] and [Poll] are [code.hybscloud.com/kont]
//     operations. [Exec] runs a protocol blocking; [Step] and [Advance]
//     drive it one non-blocking effect at a time; [Run] interleaves two.
//   - Devices: [Registry] owns a fixed set of named pipes built from a
//     [Config], with a shared memory [Budget] and a text [Registry.Dump].
//
// # Example
//
//	p, _ := pipe.New(pipe.WithCapacity(8))
//	w, _ := p.Open(pipe.ModeWrite, false)
//	r, _ := p.Open(pipe.ModeRead, false)
//	n, _ := w.Write([]byte("ABCDEFG")) // 7
//	_, err := w.Write([]byte("H"))     // ErrWouldBlock
//	buf := make([]byte, 3)
//	n, _ = r.Read(buf)                 // "ABC"
package pipe
