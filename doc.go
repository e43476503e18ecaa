// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hipmath is a HIP-shaped device runtime executing on the CPU and the
// device math library its kernels call.
//
// The runtime covers the part of the HIP API a device math test needs:
//   - Malloc/Free backed by an aligned memory pool
//   - Memcpy in every direction, blocking on queued kernels when reading
//     device memory
//   - Launch/LaunchFunc over a Dim3 grid of Dim3 blocks
//   - ParallelMap for the common launch-and-wait pattern
//
// The math library provides the intrinsics under test: AbsInt64, Lgamma,
// Tgamma, MinHalf/MaxHalf, Powif, Powi, Powf, Pow, PowHalf and PownHalf,
// plus the Float16 half precision type.
//
// The checks exercising the library live in package mathcheck; the
// pass/fail protocol lives in package harness.
package hipmath
